package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/wikied/internal/client/api"
	"github.com/dmitrijs2005/wikied/internal/client/services"
	"github.com/dmitrijs2005/wikied/internal/common"
)

const (
	msgLoginRequired  = "로그인이 필요한 서비스 입니다."
	msgSessionExpired = "로그인이 만료되었습니다. login 으로 다시 로그인해 주세요."
	msgNoProfile      = "아직 위키가 없어요. create-wiki 로 위키를 만들어 주세요."
	msgRequestFailed  = "요청을 처리하지 못했어요. 잠시 후 다시 시도해 주세요."
)

type command struct {
	name  string
	usage string
	// auth commands are listed in help only after login.
	auth bool
	run  func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "register", usage: "register", run: (*App).Register},
	{name: "login", usage: "login", run: (*App).Login},
	{name: "logout", usage: "logout", auth: true, run: (*App).Logout},
	{name: "me", usage: "me", auth: true, run: (*App).Me},
	{name: "wikis", usage: "wikis [name] [page]", run: (*App).Wikis},
	{name: "wiki", usage: "wiki [code]", run: (*App).Wiki},
	{name: "create-wiki", usage: "create-wiki", auth: true, run: (*App).CreateWiki},
	{name: "upload", usage: "upload <path>", auth: true, run: (*App).Upload},
	{name: "articles", usage: "articles [page] [recent|like] [keyword]", run: (*App).Articles},
	{name: "article", usage: "article <id>", run: (*App).Article},
	{name: "write", usage: "write", auth: true, run: (*App).Write},
	{name: "edit-article", usage: "edit-article <id>", auth: true, run: (*App).EditArticle},
	{name: "delete-article", usage: "delete-article <id>", auth: true, run: (*App).DeleteArticle},
	{name: "like", usage: "like <id>", auth: true, run: (*App).Like},
	{name: "unlike", usage: "unlike <id>", auth: true, run: (*App).Unlike},
	{name: "comments", usage: "comments <id> [cursor]", run: (*App).Comments},
	{name: "comment", usage: "comment <id>", auth: true, run: (*App).Comment},
	{name: "edit-comment", usage: "edit-comment <id>", auth: true, run: (*App).EditComment},
	{name: "delete-comment", usage: "delete-comment <id>", auth: true, run: (*App).DeleteComment},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// usageError means the arguments did not fit the command.
type usageError struct {
	usage string
}

func (e *usageError) Error() string { return "usage: " + e.usage }

func intArg(args []string, i int, usage string) (int, error) {
	if i >= len(args) {
		return 0, &usageError{usage: usage}
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 0 {
		return 0, &usageError{usage: usage}
	}
	return n, nil
}

// runREPL reads one command per line and dispatches it until "exit", "quit"
// or end of input.
//
// Command errors never end the loop: they are reported to the user and
// logged. When the session signed out on its own (a failed token refresh),
// the user is told to log in again after the command finishes.
func runREPL(ctx context.Context, a *App) {
	a.println("Welcome to Wikied CLI (type 'help' for commands)")
	for {
		a.printf("wikied%s> ", a.status())
		line, err := readLine(a.reader)
		if err != nil {
			a.println()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			a.printHelp()
			continue
		case "exit", "quit":
			a.println("Bye!")
			return
		}

		cmd, ok := lookup(name)
		if !ok {
			a.println("Unknown command:", name)
			continue
		}
		if err := cmd.run(a, ctx, args); err != nil {
			a.report(ctx, err)
		}
		if a.takeSignOut() {
			a.userName = ""
			a.println(msgSessionExpired)
		}
	}
}

func (a *App) status() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.userName)
}

func (a *App) printHelp() {
	a.println("Available commands:")
	for _, c := range commands {
		if c.auth && !a.isLoggedIn() {
			continue
		}
		a.println("  " + c.usage)
	}
	a.println("  help")
	a.println("  exit")
}

// report prints err in the user's terms.
func (a *App) report(ctx context.Context, err error) {
	var (
		usage *usageError
		verr  *services.ValidationError
	)
	switch {
	case errors.As(err, &usage):
		a.println("Usage:", usage.usage)
	case errors.As(err, &verr):
		a.println(verr.Message)
	case errors.Is(err, common.ErrNotAuthenticated):
		a.println(msgLoginRequired)
	case errors.Is(err, services.ErrNoProfile):
		a.println(msgNoProfile)
	default:
		a.log.Error(ctx, "command failed", "error", err)
		a.println(api.MessageOf(err, msgRequestFailed))
	}
}
