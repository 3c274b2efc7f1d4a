package cli

import (
	"context"
)

const expiryLayout = "2006.01.02 15:04"

// Register prompts for email, nickname and password (twice) and creates an
// account. The user is signed in on success.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "이메일", a.out)
	if err != nil {
		return err
	}
	nickname, err := GetSimpleText(a.reader, "이름", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "비밀번호", a.out)
	if err != nil {
		return err
	}
	confirmation, err := GetPassword(a.reader, "비밀번호 확인", a.out)
	if err != nil {
		return err
	}

	u, err := a.auth.SignUp(ctx, email, nickname, password, confirmation)
	if err != nil {
		return err
	}
	a.userName = u.Name
	a.println("가입이 완료되었습니다.")
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "이메일", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "비밀번호", a.out)
	if err != nil {
		return err
	}

	u, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	a.userName = u.Name
	a.printf("%s님 환영합니다.\n", u.Name)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	// asked for, so no expiry notice
	a.takeSignOut()
	a.userName = ""
	a.println("로그아웃되었습니다.")
	return nil
}

// Me prints the signed-in user and their wiki code.
func (a *App) Me(ctx context.Context, _ []string) error {
	u, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	a.userName = u.Name
	a.printf("이름: %s\n", u.Name)
	if exp, ok := a.tokens.ExpiresAt(); ok {
		a.printf("로그인 유지: %s 까지\n", exp.Local().Format(expiryLayout))
	}
	if u.HasProfile() {
		a.printf("위키: %s\n", u.Profile.Code)
	} else {
		a.println(msgNoProfile)
	}
	return nil
}
