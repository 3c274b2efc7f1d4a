package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/wikied/internal/client/models"
)

func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/signUp", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/signIn", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges a refresh token for a new access token. It does not
// store the result.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*models.RefreshTokenResponse, error) {
	var out models.RefreshTokenResponse
	req := models.RefreshTokenRequest{RefreshToken: refreshToken}
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/refresh-token", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the signed-in user with its nested profile reference.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if _, err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
