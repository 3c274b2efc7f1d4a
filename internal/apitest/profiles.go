package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedProfile creates a wiki owned by ownerID and returns its code.
func (s *Server) SeedProfile(ownerID int, question, answer, content string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.addProfile(s.users[ownerID], question, answer)
	if err != nil {
		panic(err)
	}
	p.Content = content
	return p.Code
}

// Profile returns the stored wiki.
func (s *Server) Profile(code string) (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[code]
	if !ok {
		return models.Profile{}, false
	}
	return p.Profile, true
}

// Lock registers an edit lock on code as if userID had passed the quiz at.
func (s *Server) Lock(code string, userID int, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks[code] = lock{userID: userID, registeredAt: at}
}

// Locked reports whether code is under an unexpired lock.
func (s *Server) Locked(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.activeLock(code)
	return ok
}

func (s *Server) addProfile(owner *user, question, answer string) (*profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(answer), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	p := &profile{
		Profile: models.Profile{
			ID:               s.id(),
			Code:             uuid.NewString(),
			Name:             owner.name,
			SecurityQuestion: question,
			UpdatedAt:        s.now(),
		},
		ownerID:    owner.id,
		answerHash: hash,
	}
	s.profiles[p.Code] = p
	owner.profileCode = p.Code
	return p, nil
}

func (s *Server) activeLock(code string) (lock, bool) {
	l, ok := s.locks[code]
	if !ok {
		return lock{}, false
	}
	if s.now().Sub(l.registeredAt) >= s.LockWindow {
		delete(s.locks, code)
		return lock{}, false
	}
	return l, true
}

func (s *Server) listProfiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	name := c.Query("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.ProfileSummary
	for _, p := range s.profiles {
		if name != "" && !strings.Contains(p.Name, name) {
			continue
		}
		all = append(all, models.ProfileSummary{
			ID: p.ID, Code: p.Code, Name: p.Name, Image: p.Image, City: p.City, Job: p.Job, UpdatedAt: p.UpdatedAt,
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	c.JSON(http.StatusOK, models.ProfileList{List: paginate(all, page, size), TotalCount: len(all)})
}

func (s *Server) createProfile(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SecurityQuestion == "" || req.SecurityAnswer == "" {
		fail(c, http.StatusBadRequest, "질문과 답변을 입력해 주세요.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	owner := s.users[c.GetInt("uid")]
	if owner.profileCode != "" {
		fail(c, http.StatusBadRequest, "이미 위키가 있습니다.")
		return
	}
	p, err := s.addProfile(owner, req.SecurityQuestion, req.SecurityAnswer)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, p.Profile)
}

func (s *Server) getProfile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[c.Param("code")]
	if !ok {
		fail(c, http.StatusNotFound, "위키를 찾을 수 없습니다.")
		return
	}
	c.JSON(http.StatusOK, p.Profile)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	code := c.Param("code")
	p, ok := s.profiles[code]
	if !ok {
		fail(c, http.StatusNotFound, "위키를 찾을 수 없습니다.")
		return
	}
	l, locked := s.activeLock(code)
	if !locked || l.userID != c.GetInt("uid") {
		fail(c, http.StatusForbidden, "수정 권한이 없습니다.")
		return
	}

	p.Nationality, p.Family, p.BloodType = req.Nationality, req.Family, req.BloodType
	p.Nickname, p.Birthday, p.SNS = req.Nickname, req.Birthday, req.SNS
	p.Job, p.MBTI, p.City = req.Job, req.MBTI, req.City
	p.Image, p.Content = req.Image, req.Content
	p.UpdatedAt = s.now()
	delete(s.locks, code)

	c.JSON(http.StatusOK, p.Profile)
}

// checkPing answers 204 when the caller may start editing: nobody holds a
// live lock, or the caller holds it.
func (s *Server) checkPing(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := c.Param("code")
	if _, ok := s.profiles[code]; !ok {
		fail(c, http.StatusNotFound, "위키를 찾을 수 없습니다.")
		return
	}
	l, locked := s.activeLock(code)
	if !locked || l.userID == c.GetInt("uid") {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, models.PingResponse{RegisteredAt: l.registeredAt, UserID: l.userID})
}

func (s *Server) submitPing(c *gin.Context) {
	var req models.PingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	code := c.Param("code")
	p, ok := s.profiles[code]
	if !ok {
		fail(c, http.StatusNotFound, "위키를 찾을 수 없습니다.")
		return
	}
	uid := c.GetInt("uid")
	if l, locked := s.activeLock(code); locked && l.userID != uid {
		fail(c, http.StatusConflict, "다른 사용자가 편집 중입니다.")
		return
	}
	if bcrypt.CompareHashAndPassword(p.answerHash, []byte(req.SecurityAnswer)) != nil {
		fail(c, http.StatusBadRequest, "보안 답변이 일치하지 않습니다.")
		return
	}

	l := lock{userID: uid, registeredAt: s.now()}
	s.locks[code] = l
	c.JSON(http.StatusOK, models.PingResponse{RegisteredAt: l.registeredAt, UserID: l.userID})
}

func paginate[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}
