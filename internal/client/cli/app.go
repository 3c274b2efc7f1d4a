package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dmitrijs2005/wikied/internal/client/api"
	"github.com/dmitrijs2005/wikied/internal/client/config"
	"github.com/dmitrijs2005/wikied/internal/client/services"
	"github.com/dmitrijs2005/wikied/internal/client/session"
	"github.com/dmitrijs2005/wikied/internal/client/storage"
	"github.com/dmitrijs2005/wikied/internal/client/timer"
	"github.com/dmitrijs2005/wikied/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	store    storage.Store
	tokens   *session.Session
	auth     services.AuthService
	profiles services.ProfileService
	board    services.BoardService

	reader *bufio.Reader
	out    io.Writer
	clock  timer.Clock

	// runProgram runs the full-screen wiki view.
	runProgram func(m tea.Model) error

	userName string
	// signedOut receives when the session drops its tokens.
	signedOut   chan struct{}
	unsubscribe func()
}

type Option func(*App)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.reader = bufio.NewReader(in)
		a.out = out
	}
}

// WithStore uses s instead of opening the SQLite store from the config.
func WithStore(s storage.Store) Option {
	return func(a *App) { a.store = s }
}

func WithClock(c timer.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithProgramRunner replaces the bubbletea program runner.
func WithProgramRunner(fn func(m tea.Model) error) Option {
	return func(a *App) { a.runProgram = fn }
}

// NewApp opens the token store, restores a previous session and builds the
// API client and services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = logging.NewNop()
	}
	a := &App{
		config:     c,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		clock:      timer.System,
		runProgram: runTea,
		signedOut:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}

	if a.store == nil {
		s, err := storage.OpenSQLite(ctx, c.StoragePath)
		if err != nil {
			return nil, err
		}
		a.store = s
	}

	a.tokens = session.New(a.store, log)
	if err := a.tokens.Load(ctx); err != nil {
		_ = a.store.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	a.unsubscribe = a.tokens.Subscribe(a.onAuthChange)

	client, err := api.New(api.Options{
		BaseURL:       c.APIBaseURL,
		Tokens:        a.tokens,
		Timeout:       c.RequestTimeout,
		Logger:        log,
		OnAuthExpired: a.onAuthExpired,
	})
	if err != nil {
		a.unsubscribe()
		_ = a.store.Close()
		return nil, err
	}

	a.auth = services.NewAuthService(client, a.tokens)
	a.profiles = services.NewProfileService(client, a.tokens)
	a.board = services.NewBoardService(client, a.tokens)
	return a, nil
}

func runTea(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (a *App) onAuthExpired() {
	a.log.Warn(context.Background(), "refresh failed, signed out")
}

func (a *App) onAuthChange(authenticated bool) {
	if authenticated {
		return
	}
	select {
	case a.signedOut <- struct{}{}:
	default:
	}
}

// takeSignOut reports whether the session signed out since the last call.
func (a *App) takeSignOut() bool {
	select {
	case <-a.signedOut:
		return true
	default:
		return false
	}
}

// Run greets a restored user and blocks in the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.tokens.IsAuthenticated() {
		if u, err := a.auth.Me(ctx); err == nil {
			a.userName = u.Name
		} else {
			a.log.Warn(ctx, "restore user", "error", err)
		}
	}
	if a.takeSignOut() {
		a.println(msgSessionExpired)
	}
	runREPL(ctx, a)
}

// Close stops listening to the session and releases the token store.
func (a *App) Close() error {
	a.unsubscribe()
	return a.store.Close()
}

func (a *App) isLoggedIn() bool {
	return a.tokens.IsAuthenticated()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
