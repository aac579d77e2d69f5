package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/roster"
)

const (
	importTimeout = 2 * time.Minute

	// maxInvalidShown caps the rejected rows listed after an import.
	maxInvalidShown = 10
)

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	rosterService *roster.Service

	state      importState
	filePicker filepicker.Model

	result *roster.Result
	status string
	err    error
}

func NewImportModel(rosterSvc *roster.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		rosterService: rosterSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Roster" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %s", apperror.Message(msg.err))

			return m, nil
		}

		m.result = msg.result
		m.status = fmt.Sprintf(
			"Imported %d members, skipped %d already on the roster, rejected %d rows.",
			msg.result.Imported, msg.result.Skipped, len(msg.result.Invalid),
		)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.result = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select roster CSV (firstName, lastName, position, phoneNumber):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status))

	if len(m.result.Invalid) > 0 {
		b.WriteString("\n\nRejected rows:\n")

		for i, rowErr := range m.result.Invalid {
			if i == maxInvalidShown {
				fmt.Fprintf(&b, "  ... and %d more\n", len(m.result.Invalid)-maxInvalidShown)
				break
			}

			fmt.Fprintf(&b, "  row %d: %s\n", rowErr.Row, rowErr.Reason)
		}
	}

	b.WriteString("\n\n(Esc to go back)")

	return style.Render(b.String())
}

// Messages

type importResultMsg struct {
	result *roster.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.rosterService.Import(ctx, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}
