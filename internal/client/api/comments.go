package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/wikied/internal/client/models"
)

// ListComments fetches one page of comments. A nil cursor starts from the
// newest comment.
func (c *Client) ListComments(ctx context.Context, articleID, limit int, cursor *int) (*models.CommentPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != nil {
		q.Set("cursor", strconv.Itoa(*cursor))
	}
	var out models.CommentPage
	if _, err := c.doJSON(ctx, http.MethodGet, articlePath(articleID, "comments"), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateComment(ctx context.Context, articleID int, content string) (*models.Comment, error) {
	var out models.Comment
	req := models.CommentRequest{Content: content}
	if _, err := c.doJSON(ctx, http.MethodPost, articlePath(articleID, "comments"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateComment(ctx context.Context, id int, content string) (*models.Comment, error) {
	var out models.Comment
	req := models.CommentRequest{Content: content}
	if _, err := c.doJSON(ctx, http.MethodPatch, "/comments/"+strconv.Itoa(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id int) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/comments/"+strconv.Itoa(id), nil, nil, nil)
	return err
}
