package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/wikied/internal/common"
	"github.com/dmitrijs2005/wikied/internal/logging"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// Tokens is where the client reads and updates the token pair.
type Tokens interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Options configures a Client. Only BaseURL and Tokens are required.
type Options struct {
	BaseURL    string
	Tokens     Tokens
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     logging.Logger
	// OnAuthExpired runs after a failed refresh has cleared the tokens.
	OnAuthExpired func()
}

type Client struct {
	baseURL       string
	tokens        Tokens
	http          *http.Client
	log           logging.Logger
	onAuthExpired func()

	refreshMu sync.Mutex
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("api: base url is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}
	if opts.Tokens == nil {
		return nil, errors.New("api: token source is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		tokens:        opts.Tokens,
		http:          hc,
		log:           log,
		onAuthExpired: opts.OnAuthExpired,
	}, nil
}

var publicEndpoints = map[string]struct{}{
	"/auth/signUp":        {},
	"/auth/signIn":        {},
	"/auth/refresh-token": {},
}

func isPublic(path string) bool {
	_, ok := publicEndpoints[path]
	return ok
}

// request is kept fully buffered so it can be replayed after a refresh.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// response is a fully read HTTP response.
type response struct {
	status    int
	body      []byte
	requestID string
}

func jsonRequest(method, path string, query url.Values, in any) (*request, error) {
	r := &request{method: method, path: path, query: query}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		r.body = b
		r.contentType = "application/json"
	}
	return r, nil
}

// doJSON sends a JSON request and decodes a 2xx JSON body into out (when
// out is non-nil and the body is not empty).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) (*response, error) {
	r, err := jsonRequest(method, path, query, in)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if out != nil && len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp, nil
}

// do sends r, transparently refreshing the access token once on a 401 from
// a non-public endpoint. Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, r *request) (*response, error) {
	public := isPublic(r.path)

	sentWith := ""
	if !public {
		sentWith = c.tokens.AccessToken()
	}
	resp, err := c.roundTrip(ctx, r, sentWith)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusUnauthorized && !public {
		c.log.Debug(ctx, "access token rejected, refreshing", "path", r.path, "request_id", resp.requestID)

		token, rerr := c.refresh(ctx, sentWith)
		if rerr != nil {
			c.log.Warn(ctx, "token refresh failed, signing out", "error", rerr)
			c.expire(ctx)
			return nil, newAPIError(resp.status, resp.body, resp.requestID)
		}

		resp, err = c.roundTrip(ctx, r, token)
		if err != nil {
			return nil, err
		}
	}

	if resp.status < 200 || resp.status > 299 {
		return nil, newAPIError(resp.status, resp.body, resp.requestID)
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, r *request, token string) (*response, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.method, r.path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, r.method, r.path, err)
	}

	c.log.Debug(ctx, "api call", "method", r.method, "path", r.path, "status", res.StatusCode,
		"request_id", requestID, "took", time.Since(start))

	return &response{status: res.StatusCode, body: data, requestID: requestID}, nil
}

// refresh obtains a new access token. staleToken is the token the failed
// request carried: when another caller has already replaced it, that newer
// token is reused instead of refreshing again.
func (c *Client) refresh(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.tokens.AccessToken(); current != "" && current != staleToken {
		return current, nil
	}

	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return "", common.ErrRefreshTokenExpired
	}

	out, err := c.RefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", common.ErrInvalidToken
	}
	if err := c.tokens.SetAccessToken(ctx, out.AccessToken); err != nil {
		return "", fmt.Errorf("store refreshed token: %w", err)
	}
	return out.AccessToken, nil
}

func (c *Client) expire(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Error(ctx, "clear tokens", "error", err)
	}
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}
