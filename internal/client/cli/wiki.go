package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/wikied/internal/client/editsession"
	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/client/notify"
	"github.com/dmitrijs2005/wikied/internal/client/tui"
)

const wikiPageSize = 10

// Wikis lists wiki profiles, optionally filtered by name.
func (a *App) Wikis(ctx context.Context, args []string) error {
	name, page := "", 1
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			page = n
			continue
		}
		name = arg
	}

	l, err := a.profiles.List(ctx, page, wikiPageSize, name)
	if err != nil {
		return err
	}
	if len(l.List) == 0 {
		a.println("위키가 없어요.")
		return nil
	}
	for _, p := range l.List {
		a.printf("%-10s %s  %s %s\n", p.Code, p.Name, p.City, p.Job)
	}
	a.printf("page %d/%d\n", page, totalPages(l.TotalCount, wikiPageSize))
	return nil
}

// Wiki opens the wiki screen for code, or for the user's own wiki when no
// code is given. It returns when the screen is closed.
func (a *App) Wiki(ctx context.Context, args []string) error {
	var (
		p   *models.Profile
		err error
	)
	if len(args) > 0 {
		p, err = a.profiles.Get(ctx, args[0])
	} else {
		p, err = a.profiles.Mine(ctx)
	}
	if err != nil {
		return err
	}

	notes := notify.New(a.clock)
	defer notes.Close()
	sess := editsession.New(editsession.Options{
		Profile:    *p,
		Profiles:   a.profiles,
		Auth:       a.tokens,
		Notifier:   notes,
		Logger:     a.log,
		Clock:      a.clock,
		Budget:     a.config.EditBudget,
		LockWindow: a.config.LockWindow,
	})
	defer sess.Close()

	m := tui.NewWikiModel(tui.Options{Context: ctx, Session: sess, Notes: notes, Logger: a.log})
	defer m.Close()

	a.log.Info(ctx, "open wiki", "code", p.Code)
	return a.runProgram(m)
}

// CreateWiki creates the user's wiki from a security question and answer.
func (a *App) CreateWiki(ctx context.Context, _ []string) error {
	question, err := GetSimpleText(a.reader, "보안 질문", a.out)
	if err != nil {
		return err
	}
	answer, err := GetSimpleText(a.reader, "보안 답변", a.out)
	if err != nil {
		return err
	}

	p, err := a.profiles.Create(ctx, question, answer)
	if err != nil {
		return err
	}
	a.printf("위키가 생성되었습니다: %s\n", p.Code)
	return nil
}

// Upload sends an image file and prints its hosted URL.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return &usageError{usage: "upload <path>"}
	}
	url, err := a.profiles.UploadImage(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(url)
	return nil
}

func totalPages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
