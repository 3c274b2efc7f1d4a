package apitest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) userModel(u *user) models.User {
	out := models.User{ID: u.id, Name: u.name, CreatedAt: u.createdAt, UpdatedAt: u.createdAt}
	if u.profileCode != "" {
		p := s.profiles[u.profileCode]
		out.Profile = &models.ProfileRef{ID: p.ID, Code: p.Code}
	}
	return out
}

// SeedUser registers a user directly and returns its id.
func (s *Server) SeedUser(email, name, password string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.addUser(email, name, password)
	if err != nil {
		panic(err)
	}
	return u.id
}

func (s *Server) addUser(email, name, password string) (*user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	u := &user{id: s.id(), email: email, name: name, passwordHash: hash, createdAt: s.now()}
	s.users[u.id] = u
	s.byEmail[strings.ToLower(email)] = u.id
	return u, nil
}

func (s *Server) signUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}
	if req.Password != req.PasswordConfirmation {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"details": gin.H{"passwordConfirmation": gin.H{"message": "비밀번호가 일치하지 않습니다."}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[strings.ToLower(req.Email)]; taken {
		fail(c, http.StatusBadRequest, "이미 사용중인 이메일입니다.")
		return
	}
	u, err := s.addUser(req.Email, req.Name, req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondAuth(c, u)
}

func (s *Server) signIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[strings.ToLower(req.Email)]
	if !ok {
		fail(c, http.StatusBadRequest, "존재하지 않는 이메일입니다.")
		return
	}
	u := s.users[id]
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		fail(c, http.StatusBadRequest, "비밀번호가 일치하지 않습니다.")
		return
	}
	s.respondAuth(c, u)
}

func (s *Server) respondAuth(c *gin.Context, u *user) {
	access, refresh, err := s.issue(u.id)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{AccessToken: access, RefreshToken: refresh, User: s.userModel(u)})
}

func (s *Server) refreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		fail(c, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	uid, err := s.parse(req.RefreshToken, kindRefresh)
	if _, known := s.users[uid]; err != nil || !known {
		fail(c, http.StatusUnauthorized, "유효하지 않은 토큰입니다.")
		return
	}
	access, err := s.sign(uid, kindAccess, s.AccessTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, models.RefreshTokenResponse{AccessToken: access})
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.userModel(s.users[c.GetInt("uid")]))
}
