// Package api is the Wikied REST client.
//
// # Overview
//
// Client wraps net/http with the behaviour every call needs:
//  1. Non-public requests carry "Authorization: Bearer <access token>" when
//     a token is available from the Tokens source.
//  2. A 401 from a non-public endpoint triggers one refresh through
//     POST /auth/refresh-token, after which the original request is replayed
//     once with the new token.
//  3. When the refresh fails both tokens are cleared and the OnAuthExpired
//     hook runs so the UI can send the user back to the login screen.
//
// Public endpoints (sign-up, sign-in, token refresh) never carry a token and
// never trigger a refresh, so a failing refresh cannot loop.
//
// # Error Handling
//
// Non-2xx responses become *APIError values that unwrap to the sentinels
// ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict and
// ErrServer; transport failures unwrap to ErrUnavailable. Match them with
// errors.Is.
package api
