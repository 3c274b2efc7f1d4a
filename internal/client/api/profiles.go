package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/tidwall/gjson"
)

func profilePath(code string, rest ...string) string {
	p := "/profiles/" + url.PathEscape(code)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (c *Client) GetProfile(ctx context.Context, code string) (*models.Profile, error) {
	var out models.Profile
	if _, err := c.doJSON(ctx, http.MethodGet, profilePath(code), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProfiles searches wikis by owner name.
func (c *Client) ListProfiles(ctx context.Context, page, pageSize int, name string) (*models.ProfileList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if name != "" {
		q.Set("name", name)
	}
	var out models.ProfileList
	if _, err := c.doJSON(ctx, http.MethodGet, "/profiles", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProfile(ctx context.Context, req models.CreateProfileRequest) (*models.Profile, error) {
	var out models.Profile
	if _, err := c.doJSON(ctx, http.MethodPost, "/profiles", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile persists the whole profile document.
func (c *Client) UpdateProfile(ctx context.Context, code string, req models.UpdateProfileRequest) (*models.Profile, error) {
	var out models.Profile
	if _, err := c.doJSON(ctx, http.MethodPatch, profilePath(code), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckPing asks whether the wiki can be edited now. 204 means it can; any
// other 2xx carries the current lock.
func (c *Client) CheckPing(ctx context.Context, code string) (models.PingStatus, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, profilePath(code, "ping"), nil, nil, nil)
	if err != nil {
		return models.PingStatus{}, err
	}
	if resp.status == http.StatusNoContent {
		return models.PingStatus{Editable: true}, nil
	}
	return parseLock(resp.body)
}

// SubmitPing sends the security answer. A wrong answer is an ErrBadRequest.
func (c *Client) SubmitPing(ctx context.Context, code, answer string) (*models.PingResponse, error) {
	var out models.PingResponse
	req := models.PingRequest{SecurityAnswer: answer}
	if _, err := c.doJSON(ctx, http.MethodPost, profilePath(code, "ping"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func parseLock(body []byte) (models.PingStatus, error) {
	if !gjson.ValidBytes(body) {
		return models.PingStatus{}, fmt.Errorf("ping: unexpected body %q", body)
	}
	raw := gjson.GetBytes(body, "registeredAt")
	if !raw.Exists() {
		return models.PingStatus{}, fmt.Errorf("ping: registeredAt missing")
	}
	at, err := time.Parse(time.RFC3339Nano, raw.String())
	if err != nil {
		return models.PingStatus{}, fmt.Errorf("ping: registeredAt: %w", err)
	}
	return models.PingStatus{
		RegisteredAt: at,
		UserID:       int(gjson.GetBytes(body, "userId").Int()),
	}, nil
}
