package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/client/richtext"
	"github.com/dmitrijs2005/wikied/internal/common"
)

const (
	DefaultPageSize    = 10
	CommentPageSize    = 10
	MaxTitleLength     = 30
	MaxCommentLength   = 500
	defaultArticleSort = models.OrderRecent
)

// BoardAPI is the part of the API client BoardService needs.
type BoardAPI interface {
	ListArticles(ctx context.Context, q models.ArticleQuery) (*models.ArticleList, error)
	GetArticle(ctx context.Context, id int) (*models.Article, error)
	CreateArticle(ctx context.Context, req models.ArticleRequest) (*models.Article, error)
	UpdateArticle(ctx context.Context, id int, req models.ArticleRequest) (*models.Article, error)
	DeleteArticle(ctx context.Context, id int) error
	LikeArticle(ctx context.Context, id int) (*models.Article, error)
	UnlikeArticle(ctx context.Context, id int) (*models.Article, error)
	ListComments(ctx context.Context, articleID, limit int, cursor *int) (*models.CommentPage, error)
	CreateComment(ctx context.Context, articleID int, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, id int, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int) error
}

// BoardService is the community board: articles, likes and comments.
//
// Article bodies are written in Markdown and stored as HTML. Like counts
// always come from the server's answer; nothing is counted locally.
type BoardService interface {
	Articles(ctx context.Context, q models.ArticleQuery) (*models.ArticleList, error)
	Article(ctx context.Context, id int) (*models.Article, error)
	Write(ctx context.Context, title, markdown, image string) (*models.Article, error)
	Edit(ctx context.Context, id int, title, markdown, image string) (*models.Article, error)
	Delete(ctx context.Context, id int) error
	Like(ctx context.Context, id int) (*models.Article, error)
	Unlike(ctx context.Context, id int) (*models.Article, error)
	Comments(ctx context.Context, articleID int, cursor *int) (*models.CommentPage, error)
	Comment(ctx context.Context, articleID int, content string) (*models.Comment, error)
	EditComment(ctx context.Context, id int, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int) error
}

type boardService struct {
	api    BoardAPI
	tokens TokenStore
}

func NewBoardService(api BoardAPI, tokens TokenStore) BoardService {
	return &boardService{api: api, tokens: tokens}
}

func (s *boardService) Articles(ctx context.Context, q models.ArticleQuery) (*models.ArticleList, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.OrderBy == "" {
		q.OrderBy = defaultArticleSort
	}
	if q.OrderBy != models.OrderRecent && q.OrderBy != models.OrderLike {
		return nil, invalid("orderBy", "recent 또는 like 중에서 선택해 주세요.")
	}
	q.Keyword = strings.TrimSpace(q.Keyword)

	l, err := s.api.ListArticles(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return l, nil
}

func (s *boardService) Article(ctx context.Context, id int) (*models.Article, error) {
	a, err := s.api.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	return a, nil
}

func (s *boardService) articleRequest(title, markdown, image string) (models.ArticleRequest, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return models.ArticleRequest{}, invalid("title", "제목을 입력해 주세요.")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return models.ArticleRequest{}, invalid("title", "제목은 30자 이하로 작성해 주세요.")
	}
	if strings.TrimSpace(markdown) == "" {
		return models.ArticleRequest{}, invalid("content", "내용을 입력해 주세요.")
	}
	body, err := richtext.FromMarkdown(markdown)
	if err != nil {
		return models.ArticleRequest{}, err
	}
	return models.ArticleRequest{Title: title, Content: body, Image: strings.TrimSpace(image)}, nil
}

func (s *boardService) requireAuth() error {
	if !s.tokens.IsAuthenticated() {
		return common.ErrNotAuthenticated
	}
	return nil
}

func (s *boardService) Write(ctx context.Context, title, markdown, image string) (*models.Article, error) {
	req, err := s.articleRequest(title, markdown, image)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	a, err := s.api.CreateArticle(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("write article: %w", err)
	}
	return a, nil
}

func (s *boardService) Edit(ctx context.Context, id int, title, markdown, image string) (*models.Article, error) {
	req, err := s.articleRequest(title, markdown, image)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	a, err := s.api.UpdateArticle(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("edit article %d: %w", id, err)
	}
	return a, nil
}

func (s *boardService) Delete(ctx context.Context, id int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.api.DeleteArticle(ctx, id); err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	return nil
}

func (s *boardService) Like(ctx context.Context, id int) (*models.Article, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	a, err := s.api.LikeArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("like article %d: %w", id, err)
	}
	return a, nil
}

func (s *boardService) Unlike(ctx context.Context, id int) (*models.Article, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	a, err := s.api.UnlikeArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("unlike article %d: %w", id, err)
	}
	return a, nil
}

func (s *boardService) Comments(ctx context.Context, articleID int, cursor *int) (*models.CommentPage, error) {
	p, err := s.api.ListComments(ctx, articleID, CommentPageSize, cursor)
	if err != nil {
		return nil, fmt.Errorf("list comments of %d: %w", articleID, err)
	}
	return p, nil
}

func validateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return "", invalid("content", "댓글을 입력해 주세요.")
	case utf8.RuneCountInString(content) > MaxCommentLength:
		return "", invalid("content", "댓글은 500자 이하로 작성해 주세요.")
	}
	return content, nil
}

func (s *boardService) Comment(ctx context.Context, articleID int, content string) (*models.Comment, error) {
	content, err := validateComment(content)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	c, err := s.api.CreateComment(ctx, articleID, content)
	if err != nil {
		return nil, fmt.Errorf("comment on %d: %w", articleID, err)
	}
	return c, nil
}

func (s *boardService) EditComment(ctx context.Context, id int, content string) (*models.Comment, error) {
	content, err := validateComment(content)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	c, err := s.api.UpdateComment(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("edit comment %d: %w", id, err)
	}
	return c, nil
}

func (s *boardService) DeleteComment(ctx context.Context, id int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.api.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return nil
}
