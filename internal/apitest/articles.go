package apitest

import (
	"fmt"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SeedArticle stores an article written by writerID and returns its id.
func (s *Server) SeedArticle(writerID int, title, content string, likes int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.addArticle(writerID, models.ArticleRequest{Title: title, Content: content})
	a.LikeCount = likes
	return a.ID
}

// SeedComment stores a comment and returns its id.
func (s *Server) SeedComment(articleID, writerID int, content string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addComment(articleID, writerID, content).ID
}

func (s *Server) addArticle(writerID int, req models.ArticleRequest) *models.Article {
	now := s.now()
	a := &models.Article{
		ID:        s.id(),
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		Writer:    models.Writer{ID: writerID, Name: s.users[writerID].name},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.articles[a.ID] = a
	s.likes[a.ID] = make(map[int]bool)
	return a
}

func (s *Server) addComment(articleID, writerID int, content string) *comment {
	now := s.now()
	cm := &comment{
		Comment: models.Comment{
			ID:        s.id(),
			Content:   content,
			Writer:    models.Writer{ID: writerID, Name: s.users[writerID].name},
			CreatedAt: now,
			UpdatedAt: now,
		},
		articleID: articleID,
	}
	s.comments[cm.ID] = cm
	s.articles[articleID].CommentCount++
	return cm
}

// view copies a with the per-caller like flag.
func (s *Server) view(a *models.Article, uid int) models.Article {
	out := *a
	out.IsLiked = uid != 0 && s.likes[a.ID][uid]
	return out
}

func (s *Server) article(c *gin.Context) (*models.Article, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "잘못된 게시글 번호입니다.")
		return nil, false
	}
	a, ok := s.articles[id]
	if !ok {
		fail(c, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
		return nil, false
	}
	return a, true
}

func (s *Server) listArticles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	order := models.ArticleOrder(c.DefaultQuery("orderBy", string(models.OrderRecent)))
	keyword := c.Query("keyword")

	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Article
	for _, a := range s.articles {
		if keyword != "" && !strings.Contains(a.Title, keyword) && !strings.Contains(a.Content, keyword) {
			continue
		}
		item := *a
		item.Content = ""
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool {
		if order == models.OrderLike && all[i].LikeCount != all[j].LikeCount {
			return all[i].LikeCount > all[j].LikeCount
		}
		return all[i].ID > all[j].ID
	})
	c.JSON(http.StatusOK, models.ArticleList{List: paginate(all, page, size), TotalCount: len(all)})
}

func (s *Server) createArticle(c *gin.Context) {
	var req models.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, "제목을 입력해 주세요.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := c.GetInt("uid")
	c.JSON(http.StatusCreated, s.view(s.addArticle(uid, req), uid))
}

func (s *Server) getArticle(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.article(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.view(a, c.GetInt("uid")))
}

func (s *Server) updateArticle(c *gin.Context) {
	var req models.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.article(c)
	if !ok {
		return
	}
	uid := c.GetInt("uid")
	if a.Writer.ID != uid {
		fail(c, http.StatusForbidden, "작성자만 수정할 수 있습니다.")
		return
	}
	if req.Title != "" {
		a.Title = req.Title
	}
	a.Content = req.Content
	if req.Image != "" {
		a.Image = req.Image
	}
	a.UpdatedAt = s.now()
	c.JSON(http.StatusOK, s.view(a, uid))
}

func (s *Server) deleteArticle(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.article(c)
	if !ok {
		return
	}
	if a.Writer.ID != c.GetInt("uid") {
		fail(c, http.StatusForbidden, "작성자만 삭제할 수 있습니다.")
		return
	}
	delete(s.articles, a.ID)
	delete(s.likes, a.ID)
	for id, cm := range s.comments {
		if cm.articleID == a.ID {
			delete(s.comments, id)
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) likeArticle(c *gin.Context)   { s.setLike(c, true) }
func (s *Server) unlikeArticle(c *gin.Context) { s.setLike(c, false) }

func (s *Server) setLike(c *gin.Context, liked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.article(c)
	if !ok {
		return
	}
	uid := c.GetInt("uid")
	if s.likes[a.ID][uid] == liked {
		if liked {
			fail(c, http.StatusBadRequest, "이미 좋아요를 눌렀습니다.")
		} else {
			fail(c, http.StatusBadRequest, "좋아요를 누르지 않았습니다.")
		}
		return
	}
	s.likes[a.ID][uid] = liked
	if liked {
		a.LikeCount++
	} else {
		a.LikeCount--
	}
	c.JSON(http.StatusOK, s.view(a, uid))
}

func (s *Server) listComments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	cursor, _ := strconv.Atoi(c.Query("cursor"))

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.article(c)
	if !ok {
		return
	}
	var all []models.Comment
	for _, cm := range s.comments {
		if cm.articleID != a.ID || (cursor > 0 && cm.ID >= cursor) {
			continue
		}
		all = append(all, cm.Comment)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	out := models.CommentPage{List: all}
	if len(all) > limit {
		out.List = all[:limit]
		next := out.List[limit-1].ID
		out.NextCursor = &next
	}
	if out.List == nil {
		out.List = []models.Comment{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createComment(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, http.StatusBadRequest, "댓글 내용을 입력해 주세요.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.article(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.addComment(a.ID, c.GetInt("uid"), req.Content).Comment)
}

func (s *Server) ownComment(c *gin.Context) (*comment, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "잘못된 댓글 번호입니다.")
		return nil, false
	}
	cm, ok := s.comments[id]
	if !ok {
		fail(c, http.StatusNotFound, "댓글을 찾을 수 없습니다.")
		return nil, false
	}
	if cm.Writer.ID != c.GetInt("uid") {
		fail(c, http.StatusForbidden, "작성자만 수정할 수 있습니다.")
		return nil, false
	}
	return cm, true
}

func (s *Server) updateComment(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, http.StatusBadRequest, "댓글 내용을 입력해 주세요.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cm, ok := s.ownComment(c)
	if !ok {
		return
	}
	cm.Content = req.Content
	cm.UpdatedAt = s.now()
	c.JSON(http.StatusOK, cm.Comment)
}

func (s *Server) deleteComment(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm, ok := s.ownComment(c)
	if !ok {
		return
	}
	delete(s.comments, cm.ID)
	if a, ok := s.articles[cm.articleID]; ok {
		a.CommentCount--
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "이미지 파일이 필요합니다.")
		return
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		fail(c, http.StatusBadRequest, "이미지 파일만 업로드할 수 있습니다.")
		return
	}
	url := fmt.Sprintf("https://images.wikied.test/%s/%s", uuid.NewString(), path.Base(fh.Filename))
	c.JSON(http.StatusCreated, models.ImageUploadResponse{URL: url})
}
