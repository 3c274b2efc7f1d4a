// Package editsession is the single-writer edit workflow of a wiki page:
// the security-question gate, the edit mode with its fixed countdown, and
// the save, cancel and disconnect exits.
//
// The server owns the lock (the ping endpoint); a Session only reflects the
// server's verdict and keeps the local working copy, the rollback snapshot
// and the quiz form. Every failure ends up as a notification; no method
// returns a network error.
package editsession

import (
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/models"
)

type State int

const (
	Viewing State = iota
	QuizOpen
	Editing
	ConfirmingCancel
	Disconnected
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case QuizOpen:
		return "quiz"
	case Editing:
		return "editing"
	case ConfirmingCancel:
		return "confirming-cancel"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgLoginRequired = "로그인이 필요한 서비스 입니다."
	MsgCorrect       = "정답입니다!"
	MsgWrongAnswer   = "정답이 아닙니다. 다시 시도해 주세요."
	MsgEmptyAnswer   = "답을 입력해 주세요."
	MsgSaved         = "위키가 저장되었습니다."
	msgLockedFormat  = "%d분 후 위키 참여가 가능합니다."

	msgPingFailed   = "위키 상태를 확인하지 못했습니다. 잠시 후 다시 시도해 주세요."
	msgAnswerFailed = "답변을 확인하지 못했습니다. 잠시 후 다시 시도해 주세요."
	msgSaveFailed   = "위키를 저장하지 못했습니다. 다시 시도해 주세요."
)

const (
	DefaultBudget     = 300 * time.Second
	DefaultLockWindow = 5 * time.Minute

	// lockNoticeDuration is how long the "locked" notice stays up.
	lockNoticeDuration = 5 * time.Minute
)

// Quiz is the security-question form. FocusSeq grows every time the input
// should take focus again.
type Quiz struct {
	Question     string
	Answer       string
	IsCorrect    bool
	IsSubmitting bool
	ErrorMessage string
	FocusSeq     int
}

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	State State
	Code  string
	// Profile is what the screen shows: the working copy while editing,
	// the saved document otherwise.
	Profile models.Profile
	// Previous is the last saved document, the rollback target.
	Previous      models.Profile
	IsEditing     bool
	IsProfileEdit bool
	Saving        bool
	Checking      bool
	TimeLeft      int
	Quiz          Quiz
}
