package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/chama/internal/auth"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views that act on behalf of the signed-in
// treasurer.
type CommonModel struct {
	Actor auth.Actor
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
