// Package models defines the Wikied API resources the client reads and
// writes. Field names follow the API's JSON.
package models

import "time"

// ProfileRef is the short profile reference nested in a user.
type ProfileRef struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
}

type User struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	TeamID    string      `json:"teamId"`
	Profile   *ProfileRef `json:"profile"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// HasProfile reports whether the user already created a wiki.
func (u *User) HasProfile() bool {
	return u != nil && u.Profile != nil && u.Profile.Code != ""
}

type SignUpRequest struct {
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}
