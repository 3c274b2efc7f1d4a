package common

import "errors"

var (
	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken     = errors.New("invalid token")

	// ErrRefreshTokenExpired means the server refused the refresh token.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
