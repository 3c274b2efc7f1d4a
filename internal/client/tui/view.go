package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/wikied/internal/client/editsession"
	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/client/richtext"
)

const (
	confirmCancelText = "편집을 취소하시겠습니까?\n변경사항은 저장되지 않습니다."
	disconnectedText  = "5분 이상 글을 쓰지 않아 접속이 끊어졌어요.\n위키 참여하기를 통해 다시 위키를 수정해 주세요."
)

func (m *WikiModel) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.snap.State {
	case editsession.QuizOpen:
		b.WriteString(m.quizView())
	case editsession.Editing:
		b.WriteString(m.editingView())
	case editsession.ConfirmingCancel:
		b.WriteString(modalStyle.Render(confirmCancelText + "\n\n" + hintStyle.Render("y: 취소하기  n: 계속 편집")))
	case editsession.Disconnected:
		b.WriteString(modalStyle.Render(disconnectedText + "\n\n" + hintStyle.Render("enter: 확인")))
	default:
		b.WriteString(m.profileView())
	}

	if m.note.Open {
		b.WriteString("\n\n")
		b.WriteString(snackbarStyles[m.note.Severity].Render(m.note.Text))
	}
	return b.String()
}

func (m *WikiModel) header() string {
	p := m.snap.Profile
	title := titleStyle.Render(p.Name)
	if p.Name == "" {
		title = titleStyle.Render(m.snap.Code)
	}
	line := title + "  " + labelStyle.Render(m.snap.Code)
	if m.snap.State == editsession.Editing || m.snap.State == editsession.ConfirmingCancel {
		line += "  " + timerStyle.Render(FormatCountdown(m.snap.TimeLeft))
	}
	return line
}

func (m *WikiModel) profileView() string {
	var b strings.Builder
	b.WriteString(fieldsView(m.snap.Profile))
	b.WriteString("\n")

	text := hintStyle.Render("아직 작성된 내용이 없어요.")
	if !richtext.IsEmpty(m.snap.Profile.Content) {
		text = richtext.PlainText(m.snap.Profile.Content)
	}
	b.WriteString(contentStyle.Render(text))
	b.WriteString("\n")

	hint := "e: 위키 참여하기  x: 알림 닫기  q: 나가기"
	if m.snap.Checking {
		hint = "편집 가능 여부를 확인하는 중..."
	}
	b.WriteString(hintStyle.Render(hint))
	return b.String()
}

func (m *WikiModel) quizView() string {
	q := m.snap.Quiz
	var b strings.Builder
	b.WriteString(labelStyle.Render("보안 질문"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(q.Question))
	b.WriteString("\n\n")
	b.WriteString(m.quiz.View())
	if q.ErrorMessage != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(q.ErrorMessage))
	}
	b.WriteString("\n\n")
	if q.IsSubmitting {
		b.WriteString(hintStyle.Render("확인하는 중..."))
	} else {
		b.WriteString(hintStyle.Render("enter: 확인  esc: 닫기"))
	}
	return modalStyle.Render(b.String())
}

func (m *WikiModel) editingView() string {
	var b strings.Builder
	if m.snap.IsProfileEdit {
		for i := range m.fields {
			line := m.fields[i].View()
			if m.focus == focusFields && i == m.field {
				line = activeStyle.Render("›") + " " + line
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.editor.View())
	b.WriteString("\n")

	hint := "ctrl+s: 저장  esc: 취소  ctrl+p: 프로필 편집"
	if m.snap.IsProfileEdit {
		hint += "  tab: 본문/프로필 전환"
	}
	if m.snap.Saving {
		hint = "저장하는 중..."
	}
	b.WriteString(hintStyle.Render(hint))
	return b.String()
}

func fieldsView(p models.Profile) string {
	rows := make([]string, 0, len(models.ProfileFields))
	for _, name := range models.ProfileFields {
		v, _ := p.Field(name)
		if v == "" {
			v = "-"
		}
		rows = append(rows, labelStyle.Render(fmt.Sprintf("%-6s", models.FieldLabels[name]))+" "+valueStyle.Render(v))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// FormatCountdown renders whole seconds as mm:ss.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
