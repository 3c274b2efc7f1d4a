package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/wikied/internal/client/models"
)

func articlePath(id int, rest ...string) string {
	p := "/articles/" + strconv.Itoa(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (c *Client) ListArticles(ctx context.Context, q models.ArticleQuery) (*models.ArticleList, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.OrderBy != "" {
		v.Set("orderBy", string(q.OrderBy))
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	var out models.ArticleList
	if _, err := c.doJSON(ctx, http.MethodGet, "/articles", v, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArticle(ctx context.Context, id int) (*models.Article, error) {
	var out models.Article
	if _, err := c.doJSON(ctx, http.MethodGet, articlePath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateArticle(ctx context.Context, req models.ArticleRequest) (*models.Article, error) {
	var out models.Article
	if _, err := c.doJSON(ctx, http.MethodPost, "/articles", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id int, req models.ArticleRequest) (*models.Article, error) {
	var out models.Article
	if _, err := c.doJSON(ctx, http.MethodPatch, articlePath(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id int) error {
	_, err := c.doJSON(ctx, http.MethodDelete, articlePath(id), nil, nil, nil)
	return err
}

// LikeArticle and UnlikeArticle return the article as the server sees it
// afterwards; callers take counts from there.
func (c *Client) LikeArticle(ctx context.Context, id int) (*models.Article, error) {
	var out models.Article
	if _, err := c.doJSON(ctx, http.MethodPost, articlePath(id, "like"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UnlikeArticle(ctx context.Context, id int) (*models.Article, error) {
	var out models.Article
	if _, err := c.doJSON(ctx, http.MethodDelete, articlePath(id, "like"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
