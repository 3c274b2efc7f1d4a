package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/wikied/internal/client/notify"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CBFA4"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8F95B2"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E5F0"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8F95B2")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D14343"))
	timerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CBFA4"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4CBFA4")).
			Padding(1, 2)

	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false).
			BorderForeground(lipgloss.Color("#474D66")).
			Padding(0, 1)

	snackbarBase   = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#FFFFFF"))
	snackbarStyles = map[notify.Severity]lipgloss.Style{
		notify.Fail:    snackbarBase.Background(lipgloss.Color("#D14343")),
		notify.Success: snackbarBase.Background(lipgloss.Color("#32A68A")),
		notify.Info:    snackbarBase.Background(lipgloss.Color("#474D66")),
	}
)
