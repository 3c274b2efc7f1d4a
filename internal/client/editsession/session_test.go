package editsession

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wikied/internal/apitest"
	"github.com/dmitrijs2005/wikied/internal/client/api"
	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/client/notify"
	"github.com/dmitrijs2005/wikied/internal/client/services"
	"github.com/dmitrijs2005/wikied/internal/client/session"
	"github.com/dmitrijs2005/wikied/internal/client/storage"
	"github.com/dmitrijs2005/wikied/internal/client/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	question = "좋아하는 색은?"
	answer   = "파랑"
	original = "<p>original</p>"
)

type env struct {
	srv   *apitest.Server
	clock *timer.FakeClock
	notes *notify.Service
	sess  *Session
	code  string
	owner int
}

func newEnv(t *testing.T, signedIn bool) *env {
	t.Helper()
	ctx := context.Background()

	srv, ts := apitest.Start(t)
	srv.SetNow(func() time.Time { return now })
	owner := srv.SeedUser("owner@wikied.test", "owner", "password1")
	code := srv.SeedProfile(owner, question, answer, original)

	tokens := session.New(storage.NewMemoryStore(), nil)
	if signedIn {
		uid := srv.SeedUser("editor@wikied.test", "editor", "password1")
		access, refresh := srv.IssueTokens(uid)
		require.NoError(t, tokens.Login(ctx, access, refresh))
	}
	client, err := api.New(api.Options{BaseURL: ts.URL, Tokens: tokens})
	require.NoError(t, err)
	profiles := services.NewProfileService(client, tokens)

	p, err := profiles.Get(ctx, code)
	require.NoError(t, err)

	clock := timer.NewFakeClock(now)
	notes := notify.New(timer.NewFakeClock(now))
	sess := New(Options{Profile: *p, Profiles: profiles, Auth: tokens, Notifier: notes, Clock: clock})
	t.Cleanup(sess.Close)

	return &env{srv: srv, clock: clock, notes: notes, sess: sess, code: code, owner: owner}
}

func (e *env) enterEditing(t *testing.T) Snapshot {
	t.Helper()
	ctx := context.Background()
	e.sess.RequestEdit(ctx)
	require.Equal(t, QuizOpen, e.sess.Snapshot().State)
	e.sess.SubmitAnswer(ctx, answer)
	snap := e.sess.Snapshot()
	require.Equal(t, Editing, snap.State)
	return snap
}

// transitions counts how often the session entered each state.
func transitions(s *Session) map[State]int {
	var mu sync.Mutex
	counts := map[State]int{}
	last := s.Snapshot().State
	s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if snap.State != last {
			counts[snap.State]++
			last = snap.State
		}
	})
	return counts
}

func TestRequestEdit_Unauthenticated(t *testing.T) {
	e := newEnv(t, false)

	e.sess.RequestEdit(context.Background())

	assert.Equal(t, Viewing, e.sess.Snapshot().State)
	cur := e.notes.Current()
	assert.True(t, cur.Open)
	assert.Equal(t, MsgLoginRequired, cur.Text)
	assert.Equal(t, notify.Fail, cur.Severity)
	assert.Equal(t, 0, e.srv.Hits(http.MethodGet, "/profiles/"+e.code+"/ping"))
}

func TestRequestEdit_LockedByOther(t *testing.T) {
	e := newEnv(t, true)
	e.srv.Lock(e.code, e.owner, now.Add(-2*time.Minute))

	e.sess.RequestEdit(context.Background())

	assert.Equal(t, Viewing, e.sess.Snapshot().State)
	cur := e.notes.Current()
	assert.Equal(t, "3분 후 위키 참여가 가능합니다.", cur.Text)
	assert.Equal(t, notify.Info, cur.Severity)
	assert.Equal(t, 5*time.Minute, cur.AutoHide)
}

func TestRequestEdit_OpensQuiz(t *testing.T) {
	e := newEnv(t, true)

	e.sess.RequestEdit(context.Background())

	snap := e.sess.Snapshot()
	assert.Equal(t, QuizOpen, snap.State)
	assert.Equal(t, question, snap.Quiz.Question)
	assert.Empty(t, snap.Quiz.Answer)
	assert.False(t, snap.Quiz.IsCorrect)
	assert.Equal(t, 1, snap.Quiz.FocusSeq)

	// a second request while the quiz is open does nothing
	e.sess.RequestEdit(context.Background())
	assert.Equal(t, 1, e.srv.Hits(http.MethodGet, "/profiles/"+e.code+"/ping"))
}

func TestRequestEdit_ServerError(t *testing.T) {
	e := newEnv(t, true)
	e.srv.FailNext(http.MethodGet, "/profiles/"+e.code+"/ping", http.StatusInternalServerError)

	e.sess.RequestEdit(context.Background())

	assert.Equal(t, Viewing, e.sess.Snapshot().State)
	assert.False(t, e.sess.Snapshot().Checking)
	assert.Equal(t, notify.Fail, e.notes.Current().Severity)
}

func TestQuiz_WrongAnswersThenCorrect(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	counts := transitions(e.sess)

	e.sess.RequestEdit(ctx)
	focus := e.sess.Snapshot().Quiz.FocusSeq

	for i, wrong := range []string{"빨강", "초록", "노랑"} {
		e.sess.SubmitAnswer(ctx, wrong)
		snap := e.sess.Snapshot()
		assert.Equal(t, QuizOpen, snap.State)
		assert.Empty(t, snap.Quiz.Answer)
		assert.Equal(t, MsgWrongAnswer, snap.Quiz.ErrorMessage)
		assert.Equal(t, focus+i+1, snap.Quiz.FocusSeq)
		assert.False(t, snap.Quiz.IsSubmitting)
	}
	assert.Equal(t, 0, counts[Editing])

	e.sess.SubmitAnswer(ctx, answer)
	snap := e.sess.Snapshot()
	assert.Equal(t, Editing, snap.State)
	assert.True(t, snap.IsEditing)
	assert.Equal(t, 300, snap.TimeLeft)
	assert.Equal(t, MsgCorrect, e.notes.Current().Text)
	assert.Equal(t, notify.Success, e.notes.Current().Severity)

	// accepted answers are final
	e.sess.SubmitAnswer(ctx, answer)
	assert.Equal(t, 1, counts[Editing])
	assert.Equal(t, 4, e.srv.Hits(http.MethodPost, "/profiles/"+e.code+"/ping"))
}

func TestQuiz_EmptyAnswerIsNotSent(t *testing.T) {
	e := newEnv(t, true)
	e.sess.RequestEdit(context.Background())

	e.sess.SubmitAnswer(context.Background(), "")
	assert.Equal(t, MsgEmptyAnswer, e.sess.Snapshot().Quiz.ErrorMessage)
	assert.Equal(t, 0, e.srv.Hits(http.MethodPost, "/profiles/"+e.code+"/ping"))
}

func TestQuiz_ServerErrorKeepsInput(t *testing.T) {
	e := newEnv(t, true)
	e.sess.RequestEdit(context.Background())
	e.srv.FailNext(http.MethodPost, "/profiles/"+e.code+"/ping", http.StatusBadGateway)

	e.sess.SubmitAnswer(context.Background(), answer)

	snap := e.sess.Snapshot()
	assert.Equal(t, QuizOpen, snap.State)
	assert.Equal(t, answer, snap.Quiz.Answer)
	assert.Empty(t, snap.Quiz.ErrorMessage)
	assert.Equal(t, notify.Fail, e.notes.Current().Severity)
}

func TestCloseQuiz(t *testing.T) {
	e := newEnv(t, true)
	e.sess.RequestEdit(context.Background())
	e.sess.SetAnswer("draft")

	e.sess.CloseQuiz()
	snap := e.sess.Snapshot()
	assert.Equal(t, Viewing, snap.State)
	assert.Empty(t, snap.Quiz.Answer)

	// reopening starts a fresh attempt
	e.sess.RequestEdit(context.Background())
	assert.Empty(t, e.sess.Snapshot().Quiz.Answer)
	assert.Empty(t, e.sess.Snapshot().Quiz.ErrorMessage)
}

func TestSave_RoundTrip(t *testing.T) {
	e := newEnv(t, true)
	e.enterEditing(t)

	require.NoError(t, e.sess.SetContent("<p>hello</p>"))
	require.NoError(t, e.sess.ToggleProfileEdit())
	require.NoError(t, e.sess.SetField("city", "서울"))

	e.sess.Save(context.Background())

	snap := e.sess.Snapshot()
	assert.Equal(t, Viewing, snap.State)
	assert.False(t, snap.IsEditing)
	assert.Equal(t, "<p>hello</p>", snap.Profile.Content)
	assert.Equal(t, "<p>hello</p>", snap.Previous.Content)
	assert.Equal(t, MsgSaved, e.notes.Current().Text)
	assert.Equal(t, 0, e.clock.Pending())

	stored, ok := e.srv.Profile(e.code)
	require.True(t, ok)
	assert.Equal(t, "<p>hello</p>", stored.Content)
	assert.Equal(t, "서울", stored.City)
}

func TestSave_FailureKeepsEdits(t *testing.T) {
	e := newEnv(t, true)
	e.enterEditing(t)
	require.NoError(t, e.sess.SetContent("<p>draft</p>"))
	e.srv.FailNext(http.MethodPatch, "/profiles/"+e.code, http.StatusInternalServerError)

	e.sess.Save(context.Background())

	snap := e.sess.Snapshot()
	assert.Equal(t, Editing, snap.State)
	assert.True(t, snap.IsEditing)
	assert.False(t, snap.Saving)
	assert.Equal(t, "<p>draft</p>", snap.Profile.Content)
	assert.Equal(t, original, snap.Previous.Content)
	assert.Equal(t, notify.Fail, e.notes.Current().Severity)

	// retry works
	e.sess.Save(context.Background())
	assert.Equal(t, Viewing, e.sess.Snapshot().State)
}

func TestCancel_RestoresSnapshot(t *testing.T) {
	e := newEnv(t, true)
	before := e.enterEditing(t)

	require.NoError(t, e.sess.SetContent("<p>unsaved</p>"))
	require.NoError(t, e.sess.ToggleProfileEdit())
	require.NoError(t, e.sess.SetField("job", "개발자"))

	e.sess.RequestCancel()
	assert.Equal(t, ConfirmingCancel, e.sess.Snapshot().State)
	e.sess.AbortCancel()
	assert.Equal(t, "<p>unsaved</p>", e.sess.Snapshot().Profile.Content)

	e.sess.RequestCancel()
	e.sess.ConfirmCancel()

	snap := e.sess.Snapshot()
	assert.Equal(t, Viewing, snap.State)
	assert.Equal(t, before.Profile, snap.Profile)
	assert.False(t, snap.IsProfileEdit)
	assert.Equal(t, 0, e.clock.Pending())
	assert.Equal(t, 0, e.srv.Hits(http.MethodPatch, "/profiles/"+e.code))
}

func TestCancel_InViewingIsNoop(t *testing.T) {
	e := newEnv(t, true)
	before := e.sess.Snapshot()

	published := 0
	e.sess.Subscribe(func(Snapshot) { published++ })

	e.sess.RequestCancel()
	e.sess.RequestCancel()
	e.sess.ConfirmCancel()
	e.sess.ConfirmCancel()
	e.sess.AcknowledgeDisconnect()

	assert.Equal(t, before, e.sess.Snapshot())
	assert.Equal(t, 0, published)
}

func TestInactivity_DisconnectsOnce(t *testing.T) {
	e := newEnv(t, true)
	before := e.enterEditing(t)
	counts := transitions(e.sess)

	e.clock.Advance(100 * time.Second)
	require.NoError(t, e.sess.SetContent("<p>typing</p>"))
	assert.Equal(t, 200, e.sess.Snapshot().TimeLeft, "typing does not extend the session")

	e.clock.Advance(199 * time.Second)
	assert.Equal(t, Editing, e.sess.Snapshot().State)
	assert.Equal(t, 1, e.sess.Snapshot().TimeLeft)

	e.clock.Advance(time.Second)
	snap := e.sess.Snapshot()
	assert.Equal(t, Disconnected, snap.State)
	assert.Equal(t, 0, snap.TimeLeft)
	assert.False(t, snap.IsEditing)

	e.clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, counts[Disconnected])
	assert.ErrorIs(t, e.sess.SetContent("late"), ErrNotEditing)

	e.sess.AcknowledgeDisconnect()
	snap = e.sess.Snapshot()
	assert.Equal(t, Viewing, snap.State)
	assert.Equal(t, before.Profile, snap.Profile)
	assert.Equal(t, 0, e.srv.Hits(http.MethodPatch, "/profiles/"+e.code))
}

func TestInactivity_DuringConfirm(t *testing.T) {
	e := newEnv(t, true)
	e.enterEditing(t)
	e.sess.RequestCancel()

	e.clock.Advance(300 * time.Second)
	assert.Equal(t, Disconnected, e.sess.Snapshot().State)

	e.sess.ConfirmCancel()
	assert.Equal(t, Disconnected, e.sess.Snapshot().State)
	e.sess.AcknowledgeDisconnect()
	assert.Equal(t, Viewing, e.sess.Snapshot().State)
}

func TestEdits_OutsideEditing(t *testing.T) {
	e := newEnv(t, true)
	assert.ErrorIs(t, e.sess.SetContent("x"), ErrNotEditing)
	assert.ErrorIs(t, e.sess.ToggleProfileEdit(), ErrNotEditing)

	e.enterEditing(t)
	assert.ErrorIs(t, e.sess.SetField("city", "부산"), ErrFieldsLocked)
	require.NoError(t, e.sess.ToggleProfileEdit())
	assert.Error(t, e.sess.SetField("shoeSize", "270"))
	require.NoError(t, e.sess.SetField("city", "부산"))
	assert.Equal(t, "부산", e.sess.Snapshot().Profile.City)
	assert.Empty(t, e.sess.Snapshot().Previous.City)
}

// blockingProfiles holds SubmitAnswer and Update until released.
type blockingProfiles struct {
	mu          sync.Mutex
	answerCalls int
	updateCalls int
	started     chan struct{}
	release     chan struct{}
	ping        models.PingStatus
	answerErr   error
}

func newBlocking() *blockingProfiles {
	return &blockingProfiles{
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
		ping:    models.PingStatus{Editable: true},
	}
}

func (b *blockingProfiles) CheckPing(context.Context, string) (models.PingStatus, error) {
	return b.ping, nil
}

func (b *blockingProfiles) SubmitAnswer(context.Context, string, string) (*models.PingResponse, error) {
	b.mu.Lock()
	b.answerCalls++
	b.mu.Unlock()
	b.started <- struct{}{}
	<-b.release
	return &models.PingResponse{RegisteredAt: now}, b.answerErr
}

func (b *blockingProfiles) Update(_ context.Context, _ string, p models.Profile) (*models.Profile, error) {
	b.mu.Lock()
	b.updateCalls++
	b.mu.Unlock()
	b.started <- struct{}{}
	<-b.release
	return &p, nil
}

type alwaysAuthed struct{}

func (alwaysAuthed) IsAuthenticated() bool { return true }

func newBlockingSession(t *testing.T, b *blockingProfiles) (*Session, *notify.Service) {
	t.Helper()
	notes := notify.New(timer.NewFakeClock(now))
	s := New(Options{
		Profile:  models.Profile{Code: "abc", Content: original, SecurityQuestion: question},
		Profiles: b,
		Auth:     alwaysAuthed{},
		Notifier: notes,
		Clock:    timer.NewFakeClock(now),
	})
	t.Cleanup(s.Close)
	return s, notes
}

func TestSubmitAnswer_OneInFlight(t *testing.T) {
	b := newBlocking()
	s, _ := newBlockingSession(t, b)
	ctx := context.Background()
	s.RequestEdit(ctx)

	done := make(chan struct{})
	go func() {
		s.SubmitAnswer(ctx, answer)
		close(done)
	}()
	<-b.started
	assert.True(t, s.Snapshot().Quiz.IsSubmitting)

	s.SubmitAnswer(ctx, answer)
	s.SubmitAnswer(ctx, "other")

	close(b.release)
	<-done
	assert.Equal(t, 1, b.answerCalls)
	assert.Equal(t, Editing, s.Snapshot().State)
}

func TestSubmitAnswer_ReplyAfterCloseIsDropped(t *testing.T) {
	b := newBlocking()
	s, _ := newBlockingSession(t, b)
	ctx := context.Background()
	s.RequestEdit(ctx)

	done := make(chan struct{})
	go func() {
		s.SubmitAnswer(ctx, answer)
		close(done)
	}()
	<-b.started
	s.CloseQuiz()

	close(b.release)
	<-done
	assert.Equal(t, Viewing, s.Snapshot().State)
}

func TestSave_OneInFlight(t *testing.T) {
	b := newBlocking()
	s, notes := newBlockingSession(t, b)
	ctx := context.Background()

	s.RequestEdit(ctx)
	go func() { <-b.started; b.release <- struct{}{} }()
	s.SubmitAnswer(ctx, answer)
	require.Equal(t, Editing, s.Snapshot().State)
	require.NoError(t, s.SetContent("<p>new</p>"))

	done := make(chan struct{})
	go func() {
		s.Save(ctx)
		close(done)
	}()
	<-b.started
	assert.True(t, s.Snapshot().Saving)
	s.Save(ctx)

	close(b.release)
	<-done
	assert.Equal(t, 1, b.updateCalls)
	assert.Equal(t, Viewing, s.Snapshot().State)
	assert.Equal(t, "<p>new</p>", s.Snapshot().Profile.Content)
	assert.Equal(t, MsgSaved, notes.Current().Text)
}

func TestSubmitAnswer_NonAPIError(t *testing.T) {
	b := newBlocking()
	b.answerErr = fmt.Errorf("submit: %w", errors.New("connection reset"))
	close(b.release)
	s, notes := newBlockingSession(t, b)
	ctx := context.Background()

	s.RequestEdit(ctx)
	s.SubmitAnswer(ctx, answer)
	<-b.started

	assert.Equal(t, QuizOpen, s.Snapshot().State)
	assert.Equal(t, msgAnswerFailed, notes.Current().Text)
}

func TestLockedMinutesFloorAtZero(t *testing.T) {
	b := newBlocking()
	b.ping = models.PingStatus{RegisteredAt: now.Add(-7 * time.Minute), UserID: 9}
	s, notes := newBlockingSession(t, b)

	s.RequestEdit(context.Background())
	assert.Equal(t, "0분 후 위키 참여가 가능합니다.", notes.Current().Text)
	assert.Equal(t, Viewing, s.Snapshot().State)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "unknown", State(42).String())
}
