// Package tui is the full-screen wiki view of the client: the profile, the
// security quiz, the editor with its countdown, the confirmation and
// disconnect dialogs, and the snackbar.
//
// It follows the bubbletea (Elm) architecture. Session and snackbar changes
// arrive as messages through a one-slot signal channel; network actions run
// as commands so Update never blocks.
package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dmitrijs2005/wikied/internal/client/editsession"
	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/client/notify"
	"github.com/dmitrijs2005/wikied/internal/logging"
)

type focusArea int

const (
	focusEditor focusArea = iota
	focusFields
)

// sessionChangedMsg is delivered by the listener when the session or the
// snackbar changed.
type sessionChangedMsg struct{}

// actionDoneMsg is returned by action commands once the session call
// returned.
type actionDoneMsg struct{}

// Options configures a WikiModel. Session and Notes are required.
type Options struct {
	Context context.Context
	Session *editsession.Session
	Notes   *notify.Service
	Logger  logging.Logger
}

// WikiModel is the bubbletea model of one wiki page.
type WikiModel struct {
	ctx   context.Context
	sess  *editsession.Session
	notes *notify.Service
	log   logging.Logger

	snap editsession.Snapshot
	note notify.Message

	quiz     textinput.Model
	editor   textarea.Model
	fields   []textinput.Model
	field    int
	focus    focusArea
	focusSeq int

	changed     chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe []func()

	width  int
	height int
}

func NewWikiModel(opts Options) *WikiModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	quiz := textinput.New()
	quiz.Placeholder = "답변을 입력해 주세요"
	quiz.Cursor.SetMode(cursor.CursorStatic)

	editor := textarea.New()
	editor.Placeholder = "위키 내용을 입력해 주세요"
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.ShowLineNumbers = false
	editor.Cursor.SetMode(cursor.CursorStatic)

	fields := make([]textinput.Model, len(models.ProfileFields))
	for i, name := range models.ProfileFields {
		fields[i] = textinput.New()
		fields[i].Prompt = models.FieldLabels[name] + ": "
		fields[i].Cursor.SetMode(cursor.CursorStatic)
	}

	m := &WikiModel{
		ctx:     ctx,
		sess:    opts.Session,
		notes:   opts.Notes,
		log:     log.With("wiki", opts.Session.Snapshot().Code),
		quiz:    quiz,
		editor:  editor,
		fields:  fields,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	signal := func() {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	}
	m.unsubscribe = append(m.unsubscribe,
		m.sess.Subscribe(func(editsession.Snapshot) { signal() }),
		m.notes.Subscribe(func(notify.Message) { signal() }),
	)
	m.sync()
	return m
}

// Close unregisters the model's listeners and releases a pending listen
// command. It is safe to call more than once.
func (m *WikiModel) Close() {
	m.closeOnce.Do(func() {
		for _, u := range m.unsubscribe {
			u()
		}
		m.unsubscribe = nil
		close(m.done)
	})
}

func (m *WikiModel) Init() tea.Cmd {
	return m.listen()
}

func (m *WikiModel) listen() tea.Cmd {
	ch, done := m.changed, m.done
	return func() tea.Msg {
		select {
		case <-ch:
			return sessionChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// action runs fn off the update loop.
func (m *WikiModel) action(fn func(ctx context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return actionDoneMsg{}
	}
}

// sync pulls the latest snapshot and moves focus to wherever the state
// needs it.
func (m *WikiModel) sync() {
	prev := m.snap.State
	m.snap = m.sess.Snapshot()
	m.note = m.notes.Current()

	switch m.snap.State {
	case editsession.QuizOpen:
		m.editor.Blur()
		if m.snap.Quiz.FocusSeq != m.focusSeq {
			m.focusSeq = m.snap.Quiz.FocusSeq
			m.quiz.SetValue(m.snap.Quiz.Answer)
			m.quiz.CursorEnd()
			m.quiz.Focus()
		}
	case editsession.Editing:
		m.quiz.Blur()
		if prev != editsession.Editing && prev != editsession.ConfirmingCancel {
			m.editor.SetValue(m.snap.Profile.Content)
			m.focus = focusEditor
			m.editor.Focus()
		}
		if !m.snap.IsProfileEdit && m.focus == focusFields {
			m.focusEditorArea()
		}
	case editsession.ConfirmingCancel:
	default:
		m.quiz.Blur()
		m.editor.Blur()
		m.blurFields()
		m.focus = focusEditor
	}
}

func (m *WikiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case sessionChangedMsg:
		m.sync()
		return m, m.listen()

	case actionDoneMsg:
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *WikiModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.snap.State {
	case editsession.Viewing:
		return m.handleViewingKey(msg)
	case editsession.QuizOpen:
		return m.handleQuizKey(msg)
	case editsession.Editing:
		return m.handleEditingKey(msg)
	case editsession.ConfirmingCancel:
		switch msg.String() {
		case "y", "enter":
			m.sess.ConfirmCancel()
			m.sync()
		case "n", "esc":
			m.sess.AbortCancel()
			m.sync()
		}
	case editsession.Disconnected:
		// only the explicit acknowledgement closes it
		if msg.Type == tea.KeyEnter {
			m.sess.AcknowledgeDisconnect()
			m.sync()
		}
	}
	return nil
}

func (m *WikiModel) handleViewingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "e":
		if m.snap.Checking {
			return nil
		}
		return m.action(m.sess.RequestEdit)
	case "x":
		m.notes.Dismiss()
		m.sync()
	}
	return nil
}

func (m *WikiModel) handleQuizKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.sess.CloseQuiz()
		m.sync()
		return nil
	case tea.KeyEnter:
		if m.snap.Quiz.IsSubmitting || m.snap.Quiz.IsCorrect {
			return nil
		}
		answer := m.quiz.Value()
		return m.action(func(ctx context.Context) { m.sess.SubmitAnswer(ctx, answer) })
	}

	if m.snap.Quiz.IsSubmitting {
		return nil
	}
	var cmd tea.Cmd
	m.quiz, cmd = m.quiz.Update(msg)
	m.sess.SetAnswer(m.quiz.Value())
	return cmd
}

func (m *WikiModel) handleEditingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		if m.snap.Saving {
			return nil
		}
		return m.action(m.sess.Save)
	case "esc":
		m.sess.RequestCancel()
		m.sync()
		return nil
	case "ctrl+p":
		if err := m.sess.ToggleProfileEdit(); err != nil {
			m.log.Warn(m.ctx, "toggle profile edit", "error", err)
			return nil
		}
		m.sync()
		if m.snap.IsProfileEdit {
			m.loadFields()
		}
		return nil
	case "tab":
		if m.snap.IsProfileEdit {
			if m.focus == focusEditor {
				m.focusFieldsArea()
			} else {
				m.focusEditorArea()
			}
		}
		return nil
	}

	if m.focus == focusFields {
		return m.handleFieldKey(msg)
	}

	var cmd tea.Cmd
	before := m.editor.Value()
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		if err := m.sess.SetContent(after); err != nil {
			m.log.Warn(m.ctx, "edit dropped", "error", err)
		}
		m.sync()
	}
	return cmd
}

func (m *WikiModel) handleFieldKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		m.moveField(-1)
		return nil
	case "down", "enter":
		m.moveField(1)
		return nil
	}

	var cmd tea.Cmd
	before := m.fields[m.field].Value()
	m.fields[m.field], cmd = m.fields[m.field].Update(msg)
	if after := m.fields[m.field].Value(); after != before {
		if err := m.sess.SetField(models.ProfileFields[m.field], after); err != nil {
			m.log.Warn(m.ctx, "field edit dropped", "field", models.ProfileFields[m.field], "error", err)
		}
		m.sync()
	}
	return cmd
}

func (m *WikiModel) loadFields() {
	for i, name := range models.ProfileFields {
		v, _ := m.snap.Profile.Field(name)
		m.fields[i].SetValue(v)
	}
}

func (m *WikiModel) moveField(delta int) {
	m.fields[m.field].Blur()
	m.field = (m.field + delta + len(m.fields)) % len(m.fields)
	m.fields[m.field].Focus()
}

func (m *WikiModel) focusFieldsArea() {
	m.focus = focusFields
	m.editor.Blur()
	m.fields[m.field].Focus()
}

func (m *WikiModel) focusEditorArea() {
	m.focus = focusEditor
	m.blurFields()
	m.editor.Focus()
}

func (m *WikiModel) blurFields() {
	for i := range m.fields {
		m.fields[i].Blur()
	}
}

func (m *WikiModel) resize() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.editor.SetWidth(w)
	h := m.height - 14
	if h < 5 {
		h = 5
	}
	m.editor.SetHeight(h)
	m.quiz.Width = min(w, 40)
}

// Snapshot exposes the state the model last rendered from.
func (m *WikiModel) Snapshot() editsession.Snapshot { return m.snap }
