// Package apitest is an in-memory stand-in for the Wikied REST API, used by
// integration tests of the client. It issues real JWTs so token expiry and
// refresh can be exercised end to end.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/gin-gonic/gin"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultLockWindow = 5 * time.Minute
)

type user struct {
	id           int
	email        string
	name         string
	passwordHash []byte
	profileCode  string
	createdAt    time.Time
}

type profile struct {
	models.Profile
	ownerID    int
	answerHash []byte
}

type lock struct {
	userID       int
	registeredAt time.Time
}

// Server holds all fake API state. The zero value is not usable; call New.
type Server struct {
	mu sync.Mutex

	engine *gin.Engine
	secret []byte
	now    func() time.Time

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	LockWindow time.Duration

	nextID   int
	users    map[int]*user
	byEmail  map[string]int
	profiles map[string]*profile
	locks    map[string]lock
	articles map[int]*models.Article
	likes    map[int]map[int]bool
	comments map[int]*comment

	failures map[string][]int
	hits     map[string]int
}

type comment struct {
	models.Comment
	articleID int
}

// New builds a Server with an empty dataset.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:     []byte("apitest-secret-key-that-is-long-enough"),
		now:        time.Now,
		AccessTTL:  defaultAccessTTL,
		RefreshTTL: defaultRefreshTTL,
		LockWindow: defaultLockWindow,
		users:      make(map[int]*user),
		byEmail:    make(map[string]int),
		profiles:   make(map[string]*profile),
		locks:      make(map[string]lock),
		articles:   make(map[int]*models.Article),
		likes:      make(map[int]map[int]bool),
		comments:   make(map[int]*comment),
		failures:   make(map[string][]int),
		hits:       make(map[string]int),
	}
	s.engine = s.routes()
	return s
}

// Start serves s on an httptest server closed at the end of the test.
func Start(t testing.TB) (*Server, *httptest.Server) {
	t.Helper()
	s := New()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func (s *Server) Handler() http.Handler { return s.engine }

// SetNow replaces the server clock.
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailNext makes the next request to method+path answer status with a
// generic error body. Calls queue up.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], status)
}

// Hits is how many requests reached method+path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

func (s *Server) id() int {
	s.nextID++
	return s.nextID
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.instrument)

	auth := r.Group("/auth")
	auth.POST("/signUp", s.signUp)
	auth.POST("/signIn", s.signIn)
	auth.POST("/refresh-token", s.refreshToken)

	r.GET("/users/me", s.requireAuth, s.me)

	r.GET("/profiles", s.listProfiles)
	r.POST("/profiles", s.requireAuth, s.createProfile)
	r.GET("/profiles/:code", s.getProfile)
	r.PATCH("/profiles/:code", s.requireAuth, s.updateProfile)
	r.GET("/profiles/:code/ping", s.requireAuth, s.checkPing)
	r.POST("/profiles/:code/ping", s.requireAuth, s.submitPing)

	r.GET("/articles", s.listArticles)
	r.POST("/articles", s.requireAuth, s.createArticle)
	r.GET("/articles/:id", s.optionalAuth, s.getArticle)
	r.PATCH("/articles/:id", s.requireAuth, s.updateArticle)
	r.DELETE("/articles/:id", s.requireAuth, s.deleteArticle)
	r.POST("/articles/:id/like", s.requireAuth, s.likeArticle)
	r.DELETE("/articles/:id/like", s.requireAuth, s.unlikeArticle)
	r.GET("/articles/:id/comments", s.listComments)
	r.POST("/articles/:id/comments", s.requireAuth, s.createComment)
	r.PATCH("/comments/:id", s.requireAuth, s.updateComment)
	r.DELETE("/comments/:id", s.requireAuth, s.deleteComment)

	r.POST("/images/upload", s.requireAuth, s.uploadImage)

	return r
}

// instrument counts hits and serves injected failures.
func (s *Server) instrument(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path

	s.mu.Lock()
	s.hits[key]++
	var status int
	if q := s.failures[key]; len(q) > 0 {
		status = q[0]
		s.failures[key] = q[1:]
	}
	s.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"message": http.StatusText(status)})
		return
	}
	c.Next()
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
