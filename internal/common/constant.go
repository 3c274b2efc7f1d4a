// Package common contains shared constants and sentinel errors used across
// Wikied client components.
package common

// Persistent storage keys. They match the keys the web client keeps in
// browser local storage so a token exported from there can be reused.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// HTTP header names used on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// APIBaseURLEnv is the environment variable holding the API base URL.
const APIBaseURLEnv = "NEXT_PUBLIC_API_URL"
