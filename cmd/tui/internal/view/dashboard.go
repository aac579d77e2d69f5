package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/report"
)

type DashboardModel struct {
	reportService *report.Service

	table     table.Model
	dashboard *report.Dashboard
	loading   bool
	err       error
}

func NewDashboardModel(reportSvc *report.Service) DashboardModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Member", Width: 24},
		{Title: "Type", Width: 11},
		{Title: "Amount", Width: 14},
		{Title: "Purpose", Width: 20},
	}

	return DashboardModel{
		reportService: reportSvc,
		table:         newTable(columns, 10),
		loading:       true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDashboardMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.dashboard = msg.dashboard
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle("Error: " + apperror.Message(m.err)))
	}

	s := m.dashboard.Stats

	stats := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join([]string{
			fmt.Sprintf("Treasury balance:      %s", activeStyle(FormatAmount(s.TotalBalance))),
			fmt.Sprintf("This month:            %s", FormatAmount(s.MonthlyContributions)),
			fmt.Sprintf("Pending payments:      %s", FormatAmount(s.PendingPayments)),
			fmt.Sprintf("Members:               %d (%d registered, %d pending)", s.TotalMembers, s.RegisteredMembers, s.PendingRegistrations),
			fmt.Sprintf("Paid this month:       %d", s.PaidThisMonth),
		}, "\n"))

	trends := make([]string, 0, len(m.dashboard.ContributionStats))
	for _, t := range m.dashboard.ContributionStats {
		trends = append(trends, fmt.Sprintf("%-9s %3d/%-3d %s", FormatMonth(t.Month), t.PaidMembers, t.Members, FormatAmount(t.TotalAmount)))
	}

	trendPanel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render("Contributions\n\n" + strings.Join(trends, "\n"))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, stats, trendPanel),
		"Recent transactions",
		tableView,
	))
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.dashboard.Transactions))
	for _, tx := range m.dashboard.Transactions {
		rows = append(rows, table.Row{
			FormatDate(tx.CreatedAt),
			tx.FirstName + " " + tx.LastName,
			string(tx.Type),
			FormatAmount(tx.Amount),
			tx.Purpose,
		})
	}

	m.table.SetRows(rows)
}

// newTable builds a focused table with the console's shared styling.
func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

type loadDashboardMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.reportService.Dashboard(ctx)
		return loadDashboardMsg{dashboard: d, err: err}
	}
}
