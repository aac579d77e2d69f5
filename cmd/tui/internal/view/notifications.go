package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/notification"
)

var notificationColors = map[ledger.NotificationType]lipgloss.Color{
	ledger.NotificationSuccess: lipgloss.Color("46"),
	ledger.NotificationInfo:    lipgloss.Color("39"),
	ledger.NotificationWarning: lipgloss.Color("214"),
}

// notificationItem wraps a feed entry to implement list.Item.
type notificationItem struct {
	entry notification.Entry
}

func (i notificationItem) Title() string {
	kind := lipgloss.NewStyle().
		Foreground(notificationColors[i.entry.Type]).
		Render(fmt.Sprintf("[%s]", i.entry.Type))

	return fmt.Sprintf("%s  %s", kind, i.entry.Message)
}

func (i notificationItem) Description() string {
	when := i.entry.CreatedAt.Format("2006-01-02 15:04")
	if i.entry.MemberFirstName == "" {
		return when
	}

	return fmt.Sprintf("%s  %s %s", when, i.entry.MemberFirstName, i.entry.MemberLastName)
}

func (i notificationItem) FilterValue() string {
	return i.entry.Message
}

type NotificationsModel struct {
	CommonModel
	notificationService *notification.Service

	list    list.Model
	loading bool
	status  string
}

func NewNotificationsModel(actor CommonModel, notificationSvc *notification.Service) NotificationsModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return NotificationsModel{
		CommonModel:         actor,
		notificationService: notificationSvc,
		list:                l,
		loading:             true,
	}
}

func (m NotificationsModel) Title() string     { return "Notifications" }
func (m NotificationsModel) ShortHelp() string { return "Esc: back | r: refresh | /: filter" }

func (m NotificationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadNotificationsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle("Error: " + apperror.Message(msg.err))
			return m, nil
		}

		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = notificationItem{entry: e}
		}

		m.status = ""
		if len(items) == 0 {
			m.status = "No notifications yet."
		}

		return m, m.list.SetItems(items)

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "esc":
				if m.list.FilterState() == list.FilterApplied {
					break // let the list clear the filter
				}

				return m, Back
			case "r":
				m.loading = true
				return m, m.loadCmd()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m NotificationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading notifications...")
	}

	content := m.list.View()
	if m.status != "" {
		content = m.status + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type loadNotificationsMsg struct {
	entries []notification.Entry
	err     error
}

func (m NotificationsModel) loadCmd() tea.Cmd {
	treasurerID := m.Actor.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.notificationService.List(ctx, treasurerID)
		return loadNotificationsMsg{entries: entries, err: err}
	}
}
