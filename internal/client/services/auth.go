package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/common"
)

const (
	MinPasswordLength = 8
	MaxNicknameLength = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthAPI is the part of the API client AuthService needs.
type AuthAPI interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// TokenStore is where a successful sign-in leaves the token pair.
type TokenStore interface {
	Login(ctx context.Context, access, refresh string) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
}

// AuthService defines account operations.
//
// Contract:
//   - SignUp: validate locally, create the account, and sign in with it.
//   - SignIn: authenticate and persist the token pair.
//   - SignOut: drop the stored tokens.
//   - Me: the signed-in user; common.ErrNotAuthenticated when there is none.
type AuthService interface {
	SignUp(ctx context.Context, email, nickname, password, confirmation string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	SignOut(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
}

type authService struct {
	api    AuthAPI
	tokens TokenStore
}

func NewAuthService(api AuthAPI, tokens TokenStore) AuthService {
	return &authService{api: api, tokens: tokens}
}

// ValidateSignUp checks the sign-up form the way the web form does.
func ValidateSignUp(email, nickname, password, confirmation string) error {
	nickname = strings.TrimSpace(nickname)
	switch {
	case nickname == "":
		return invalid("name", "이름을 입력해 주세요.")
	case utf8.RuneCountInString(nickname) > MaxNicknameLength:
		return invalid("name", "열 자 이하로 작성해 주세요.")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("password", "8자 이상 입력해 주세요.")
	}
	if password != confirmation {
		return invalid("passwordConfirmation", "비밀번호가 일치하지 않습니다.")
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "이메일을 입력해 주세요.")
	}
	if !emailPattern.MatchString(email) {
		return invalid("email", "이메일 형식으로 작성해 주세요.")
	}
	return nil
}

func (a *authService) SignUp(ctx context.Context, email, nickname, password, confirmation string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := ValidateSignUp(email, nickname, password, confirmation); err != nil {
		return nil, err
	}

	res, err := a.api.SignUp(ctx, models.SignUpRequest{
		Email:                email,
		Name:                 strings.TrimSpace(nickname),
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if err := a.tokens.Login(ctx, res.AccessToken, res.RefreshToken); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	return &res.User, nil
}

func (a *authService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, invalid("password", "비밀번호를 입력해 주세요.")
	}

	res, err := a.api.SignIn(ctx, models.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := a.tokens.Login(ctx, res.AccessToken, res.RefreshToken); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return &res.User, nil
}

func (a *authService) SignOut(ctx context.Context) error {
	return a.tokens.Logout(ctx)
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	if !a.tokens.IsAuthenticated() {
		return nil, common.ErrNotAuthenticated
	}
	u, err := a.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return u, nil
}
