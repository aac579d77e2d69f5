package view

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/export"
	"github.com/MrJamesThe3rd/chama/internal/report"
)

type reportState int

const (
	reportStateForm reportState = iota
	reportStateGenerating
	reportStateResult
)

type ReportsModel struct {
	CommonModel
	exportService *export.Service

	state  reportState
	form   *huh.Form
	table  table.Model
	report *report.Report
	err    error
	status string
}

func NewReportsModel(actor CommonModel, exportSvc *export.Service) ReportsModel {
	return ReportsModel{
		CommonModel:   actor,
		exportService: exportSvc,
		form:          buildReportForm(),
	}
}

func (m ReportsModel) Title() string { return "Reports" }

func (m ReportsModel) ShortHelp() string {
	if m.state == reportStateResult {
		return "Esc: new report | e: save CSV | z: save zip"
	}

	return "Esc: back | Enter: next"
}

func (m ReportsModel) Init() tea.Cmd {
	return m.form.Init()
}

func buildReportForm() *huh.Form {
	date := FormatDate(time.Now())

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Report").
				Options(
					huh.NewOption(report.TypeMonthly.Title(), string(report.TypeMonthly)),
					huh.NewOption(report.TypeAnnual.Title(), string(report.TypeAnnual)),
				),

			huh.NewInput().
				Key("date").
				Title("Any date in the period").
				Placeholder("2006-01-02").
				Value(&date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("date must be formatted 2006-01-02")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generateReportMsg:
		m.state = reportStateResult
		m.err = msg.err
		m.report = msg.report
		m.status = ""

		if msg.err == nil {
			m.table = reportTable(msg.report)
		}

		return m, nil

	case saveReportMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error saving: %v", msg.err))
			return m, nil
		}

		m.status = "Saved " + msg.path

		return m, nil

	case tea.KeyMsg:
		if m.state == reportStateResult && m.err == nil {
			switch msg.String() {
			case "e":
				return m, m.saveCmd(".csv", m.exportService.WriteCSV)
			case "z":
				return m, m.saveCmd(".zip", m.exportService.WriteArchive)
			}
		}

		if msg.Type == tea.KeyEsc {
			switch m.state {
			case reportStateForm:
				return m, Back
			case reportStateResult:
				m.state = reportStateForm
				m.form = buildReportForm()

				return m, m.form.Init()
			}
		}
	}

	switch m.state {
	case reportStateForm:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = reportStateGenerating

		return m, m.generateCmd()

	case reportStateResult:
		if m.err == nil {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)

			return m, cmd
		}
	}

	return m, nil
}

func (m ReportsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case reportStateForm:
		return style.Render("Generate Report\n\n" + m.form.View())
	case reportStateGenerating:
		return style.Render("Generating report...")
	}

	if m.err != nil {
		return style.Render(errorStyle("Error: "+apperror.Message(m.err)) + "\n\n(Esc to go back)")
	}

	r := m.report
	header := fmt.Sprintf("%s  %s to %s\nGenerated by %s at %s",
		activeStyle(r.Title),
		FormatDate(r.PeriodStart), FormatDate(r.PeriodEnd),
		r.GeneratedBy, r.GeneratedAt.Format("2006-01-02 15:04"),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return style.Render(content)
}

func reportTable(r *report.Report) table.Model {
	if r.Type == report.TypeAnnual {
		t := newTable([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Phone", Width: 12},
			{Title: "Deposits", Width: 16},
			{Title: "Withdrawals", Width: 16},
			{Title: "Months Paid", Width: 11},
		}, 15)

		rows := make([]table.Row, 0, len(r.Annual))
		for _, a := range r.Annual {
			rows = append(rows, table.Row{
				a.FirstName + " " + a.LastName,
				a.PhoneNumber,
				FormatAmount(a.TotalDeposits),
				FormatAmount(a.TotalWithdrawals),
				fmt.Sprintf("%d", a.ContributionMonths),
			})
		}

		t.SetRows(rows)

		return t
	}

	t := newTable([]table.Column{
		{Title: "Name", Width: 24},
		{Title: "Phone", Width: 12},
		{Title: "Amount", Width: 14},
		{Title: "Status", Width: 10},
		{Title: "Purpose", Width: 16},
	}, 15)

	rows := make([]table.Row, 0, len(r.Monthly))
	for _, row := range r.Monthly {
		rows = append(rows, table.Row{
			row.FirstName + " " + row.LastName,
			row.PhoneNumber,
			FormatAmount(row.Amount),
			string(row.Status),
			row.Purpose,
		})
	}

	t.SetRows(rows)

	return t
}

type generateReportMsg struct {
	report *report.Report
	err    error
}

func (m ReportsModel) generateCmd() tea.Cmd {
	actor := m.Actor
	reportType := report.Type(m.form.GetString("type"))
	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(m.form.GetString("date")))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.exportService.Export(ctx, report.Request{Type: reportType, Date: date}, actor)
		return generateReportMsg{report: r, err: err}
	}
}

type saveReportMsg struct {
	path string
	err  error
}

// saveCmd writes the current report into the working directory.
func (m ReportsModel) saveCmd(ext string, write func(io.Writer, *report.Report) error) tea.Cmd {
	r := m.report

	return func() tea.Msg {
		path := export.Filename(r, ext)

		f, err := os.Create(path)
		if err != nil {
			return saveReportMsg{err: err}
		}

		if err := write(f, r); err != nil {
			f.Close()
			return saveReportMsg{err: err}
		}

		return saveReportMsg{path: path, err: f.Close()}
	}
}
