package apitest

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

type claims struct {
	UserID int    `json:"uid"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

func (s *Server) sign(userID int, kind string, ttl time.Duration) (string, error) {
	now := s.now()
	c := claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Server) parse(token, kind string) (int, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, err
	}
	if c.Kind != kind {
		return 0, errors.New("wrong token kind")
	}
	return c.UserID, nil
}

// issue returns a fresh token pair. The caller holds s.mu.
func (s *Server) issue(userID int) (string, string, error) {
	access, err := s.sign(userID, kindAccess, s.AccessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.sign(userID, kindRefresh, s.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueTokens returns a valid access/refresh pair for userID.
func (s *Server) IssueTokens(userID int) (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	access, refresh, err := s.issue(userID)
	if err != nil {
		panic(err)
	}
	return access, refresh
}

// ExpiredAccessToken returns an access token for userID that is already
// past its expiry.
func (s *Server) ExpiredAccessToken(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.sign(userID, kindAccess, -time.Minute)
	if err != nil {
		panic(err)
	}
	return tok
}

// ExpiredRefreshToken is ExpiredAccessToken for refresh tokens.
func (s *Server) ExpiredRefreshToken(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.sign(userID, kindRefresh, -time.Minute)
	if err != nil {
		panic(err)
	}
	return tok
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func (s *Server) requireAuth(c *gin.Context) {
	tok := bearer(c)
	if tok == "" {
		fail(c, 401, "로그인이 필요합니다.")
		return
	}
	s.mu.Lock()
	uid, err := s.parse(tok, kindAccess)
	_, known := s.users[uid]
	s.mu.Unlock()
	if err != nil || !known {
		fail(c, 401, "유효하지 않은 토큰입니다.")
		return
	}
	c.Set("uid", uid)
	c.Next()
}

func (s *Server) optionalAuth(c *gin.Context) {
	if tok := bearer(c); tok != "" {
		s.mu.Lock()
		uid, err := s.parse(tok, kindAccess)
		s.mu.Unlock()
		if err == nil {
			c.Set("uid", uid)
		}
	}
	c.Next()
}
