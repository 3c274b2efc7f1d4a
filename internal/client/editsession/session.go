package editsession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/api"
	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/client/notify"
	"github.com/dmitrijs2005/wikied/internal/client/timer"
	"github.com/dmitrijs2005/wikied/internal/logging"
)

var (
	ErrNotEditing   = errors.New("not editing")
	ErrFieldsLocked = errors.New("profile fields are not in edit mode")
)

// Profiles is the server side of the workflow.
type Profiles interface {
	CheckPing(ctx context.Context, code string) (models.PingStatus, error)
	SubmitAnswer(ctx context.Context, code, answer string) (*models.PingResponse, error)
	Update(ctx context.Context, code string, p models.Profile) (*models.Profile, error)
}

type Auth interface {
	IsAuthenticated() bool
}

type Notifier interface {
	Show(text string, severity notify.Severity, autoHide time.Duration)
}

// Options configures a Session. Profile, Profiles, Auth and Notifier are
// required.
type Options struct {
	Profile    models.Profile
	Profiles   Profiles
	Auth       Auth
	Notifier   Notifier
	Logger     logging.Logger
	Clock      timer.Clock
	Budget     time.Duration
	LockWindow time.Duration
}

type Session struct {
	mu sync.Mutex

	profiles   Profiles
	auth       Auth
	notes      Notifier
	log        logging.Logger
	clock      timer.Clock
	lockWindow time.Duration
	countdown  *timer.Countdown

	state         State
	saved         models.Profile
	working       models.Profile
	isProfileEdit bool
	quiz          Quiz
	checking      bool
	saving        bool
	// epoch changes on every exit from QuizOpen or the editing states, so
	// replies to requests sent before that are dropped.
	epoch uint64

	subs    map[int]func(Snapshot)
	nextSub int
}

func New(opts Options) *Session {
	s := &Session{
		profiles:   opts.Profiles,
		auth:       opts.Auth,
		notes:      opts.Notifier,
		log:        opts.Logger,
		clock:      opts.Clock,
		lockWindow: opts.LockWindow,
		saved:      opts.Profile,
		working:    opts.Profile,
		subs:       make(map[int]func(Snapshot)),
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	s.log = s.log.With("wiki", opts.Profile.Code)
	if s.clock == nil {
		s.clock = timer.System
	}
	if s.lockWindow <= 0 {
		s.lockWindow = DefaultLockWindow
	}
	budget := opts.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	s.countdown = timer.NewCountdown(budget, s.expire,
		timer.WithClock(s.clock),
		timer.WithTick(func(int) { s.publish() }),
	)
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	shown := s.saved
	if s.isEditingLocked() {
		shown = s.working
	}
	left := s.countdown.Remaining()
	if s.state == Disconnected {
		left = 0
	}
	return Snapshot{
		State:         s.state,
		Code:          s.saved.Code,
		Profile:       shown,
		Previous:      s.saved,
		IsEditing:     s.isEditingLocked(),
		IsProfileEdit: s.isProfileEdit,
		Saving:        s.saving,
		Checking:      s.checking,
		TimeLeft:      left,
		Quiz:          s.quiz,
	}
}

func (s *Session) isEditingLocked() bool {
	return s.state == Editing || s.state == ConfirmingCancel
}

// RequestEdit asks the server whether the wiki is free and opens the quiz
// if it is.
func (s *Session) RequestEdit(ctx context.Context) {
	s.mu.Lock()
	if s.state != Viewing || s.checking {
		s.mu.Unlock()
		return
	}
	if !s.auth.IsAuthenticated() {
		s.mu.Unlock()
		s.notes.Show(MsgLoginRequired, notify.Fail, notify.DefaultAutoHide)
		return
	}
	s.checking = true
	epoch, code := s.epoch, s.saved.Code
	s.mu.Unlock()
	s.publish()

	st, err := s.profiles.CheckPing(ctx, code)

	s.mu.Lock()
	s.checking = false
	if epoch != s.epoch || s.state != Viewing {
		s.mu.Unlock()
		s.publish()
		return
	}
	switch {
	case err != nil:
		s.mu.Unlock()
		s.log.Warn(ctx, "ping check failed", "error", err)
		s.notes.Show(api.MessageOf(err, msgPingFailed), notify.Fail, notify.DefaultAutoHide)
	case !st.Editable:
		left := st.RemainingMinutes(s.clock.Now(), s.lockWindow)
		s.mu.Unlock()
		s.log.Info(ctx, "wiki is locked", "holder", st.UserID, "minutes_left", left)
		s.notes.Show(fmt.Sprintf(msgLockedFormat, left), notify.Info, lockNoticeDuration)
	default:
		s.state = QuizOpen
		s.quiz = Quiz{Question: s.saved.SecurityQuestion, FocusSeq: s.quiz.FocusSeq + 1}
		s.mu.Unlock()
	}
	s.publish()
}

// SetAnswer mirrors the quiz input.
func (s *Session) SetAnswer(answer string) {
	s.mu.Lock()
	if s.state != QuizOpen || s.quiz.IsSubmitting || s.quiz.IsCorrect {
		s.mu.Unlock()
		return
	}
	s.quiz.Answer = answer
	s.mu.Unlock()
	s.publish()
}

// SubmitAnswer sends the quiz answer. Only one submission runs at a time
// and none are taken once the answer was accepted.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) {
	s.mu.Lock()
	if s.state != QuizOpen || s.quiz.IsSubmitting || s.quiz.IsCorrect {
		s.mu.Unlock()
		return
	}
	s.quiz.Answer = answer
	if answer == "" {
		s.quiz.ErrorMessage = MsgEmptyAnswer
		s.quiz.FocusSeq++
		s.mu.Unlock()
		s.publish()
		return
	}
	s.quiz.IsSubmitting = true
	s.quiz.ErrorMessage = ""
	epoch, code := s.epoch, s.saved.Code
	s.mu.Unlock()
	s.publish()

	_, err := s.profiles.SubmitAnswer(ctx, code, answer)

	s.mu.Lock()
	if epoch != s.epoch || s.state != QuizOpen {
		s.mu.Unlock()
		return
	}
	s.quiz.IsSubmitting = false

	switch {
	case errors.Is(err, api.ErrBadRequest):
		s.quiz.Answer = ""
		s.quiz.ErrorMessage = MsgWrongAnswer
		s.quiz.FocusSeq++
		s.mu.Unlock()

	case err != nil:
		s.mu.Unlock()
		s.log.Warn(ctx, "answer submission failed", "error", err)
		s.notes.Show(api.MessageOf(err, msgAnswerFailed), notify.Fail, notify.DefaultAutoHide)

	default:
		s.quiz.IsCorrect = true
		s.state = Editing
		s.working = s.saved
		s.isProfileEdit = false
		s.countdown.SetActive(true)
		s.mu.Unlock()
		s.log.Info(ctx, "edit session started")
		s.notes.Show(MsgCorrect, notify.Success, notify.DefaultAutoHide)
	}
	s.publish()
}

// CloseQuiz dismisses the quiz without answering.
func (s *Session) CloseQuiz() {
	s.mu.Lock()
	if s.state != QuizOpen {
		s.mu.Unlock()
		return
	}
	s.state = Viewing
	s.quiz = Quiz{FocusSeq: s.quiz.FocusSeq}
	s.epoch++
	s.mu.Unlock()
	s.publish()
}

// SetContent replaces the working content. The countdown is not touched.
func (s *Session) SetContent(html string) error {
	s.mu.Lock()
	if s.state != Editing {
		s.mu.Unlock()
		return ErrNotEditing
	}
	s.working.Content = html
	s.mu.Unlock()
	s.publish()
	return nil
}

// SetField sets a descriptive field of the working copy. The fields must
// have been unlocked with ToggleProfileEdit.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	if s.state != Editing {
		s.mu.Unlock()
		return ErrNotEditing
	}
	if !s.isProfileEdit {
		s.mu.Unlock()
		return ErrFieldsLocked
	}
	if err := s.working.SetField(name, value); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.publish()
	return nil
}

// ToggleProfileEdit switches the descriptive fields between read-only and
// editable.
func (s *Session) ToggleProfileEdit() error {
	s.mu.Lock()
	if s.state != Editing {
		s.mu.Unlock()
		return ErrNotEditing
	}
	s.isProfileEdit = !s.isProfileEdit
	s.mu.Unlock()
	s.publish()
	return nil
}

// Save sends the whole working copy in one PATCH. On failure the edits stay
// so the user can retry.
func (s *Session) Save(ctx context.Context) {
	s.mu.Lock()
	if s.state != Editing || s.saving {
		s.mu.Unlock()
		return
	}
	s.saving = true
	code, doc := s.saved.Code, s.working
	s.mu.Unlock()
	s.publish()

	saved, err := s.profiles.Update(ctx, code, doc)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.mu.Unlock()
		s.log.Error(ctx, "save failed", "error", err)
		s.notes.Show(api.MessageOf(err, msgSaveFailed), notify.Fail, notify.DefaultAutoHide)
		s.publish()
		return
	}

	if saved == nil {
		saved = &doc
	}
	// The server has the document now, whatever happened locally meanwhile.
	s.saved = *saved
	s.working = *saved
	s.leaveLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "wiki saved")
	s.notes.Show(MsgSaved, notify.Success, notify.DefaultAutoHide)
	s.publish()
}

// RequestCancel asks for confirmation before discarding the edits. Outside
// of Editing it does nothing.
func (s *Session) RequestCancel() {
	s.mu.Lock()
	if s.state != Editing {
		s.mu.Unlock()
		return
	}
	s.state = ConfirmingCancel
	s.mu.Unlock()
	s.publish()
}

// AbortCancel returns to editing.
func (s *Session) AbortCancel() {
	s.mu.Lock()
	if s.state != ConfirmingCancel {
		s.mu.Unlock()
		return
	}
	s.state = Editing
	s.mu.Unlock()
	s.publish()
}

// ConfirmCancel drops the edits and restores the snapshot. Nothing is sent.
func (s *Session) ConfirmCancel() {
	s.rollback(ConfirmingCancel)
}

// AcknowledgeDisconnect closes the disconnect notice, restoring the
// snapshot the same way a cancel does.
func (s *Session) AcknowledgeDisconnect() {
	s.rollback(Disconnected)
}

func (s *Session) rollback(from State) {
	s.mu.Lock()
	if s.state != from {
		s.mu.Unlock()
		return
	}
	s.working = s.saved
	s.leaveLocked()
	s.mu.Unlock()
	s.publish()
}

// leaveLocked returns to Viewing and stops the countdown.
func (s *Session) leaveLocked() {
	s.state = Viewing
	s.isProfileEdit = false
	s.quiz = Quiz{FocusSeq: s.quiz.FocusSeq}
	s.epoch++
	s.countdown.SetActive(false)
}

func (s *Session) expire() {
	s.mu.Lock()
	if !s.isEditingLocked() {
		s.mu.Unlock()
		return
	}
	s.state = Disconnected
	s.isProfileEdit = false
	s.countdown.SetActive(false)
	s.mu.Unlock()

	s.log.Info(context.Background(), "edit session timed out")
	s.publish()
}

// Subscribe calls fn with a snapshot after every change, countdown ticks
// included. The returned func unregisters it.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Close stops the countdown and drops all subscribers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countdown.Close()
	clear(s.subs)
}
