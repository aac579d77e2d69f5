package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/member"
)

type membersState int

const (
	membersStateBrowse membersState = iota
	membersStateSearch
	membersStateRecord
)

type recordKind int

const (
	recordContribution recordKind = iota
	recordTransaction
	recordRegistration
)

func (k recordKind) String() string {
	switch k {
	case recordTransaction:
		return "Record Transaction"
	case recordRegistration:
		return "Record Registration"
	}

	return "Record Contribution"
}

var (
	memberFilters = []member.Filter{member.FilterAll, member.FilterDefaulters, member.FilterActive}
	memberSorts   = []member.SortField{
		member.SortCreatedAt,
		member.SortFirstName,
		member.SortLastName,
		member.SortBalance,
	}
)

type MembersModel struct {
	CommonModel
	memberService *member.Service
	ledgerService *ledger.Service

	state   membersState
	table   table.Model
	page    *member.Page
	form    *huh.Form
	kind    recordKind
	target  *member.Summary
	pending bool

	filterIdx int
	sortIdx   int
	filter    member.ListFilter

	loading bool
	err     error
	status  string
}

func NewMembersModel(actor CommonModel, memberSvc *member.Service, ledgerSvc *ledger.Service) MembersModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Phone", Width: 12},
		{Title: "Position", Width: 12},
		{Title: "Balance", Width: 14},
		{Title: "This Month", Width: 14},
		{Title: "Months", Width: 7},
		{Title: "Registered", Width: 10},
	}

	return MembersModel{
		CommonModel:   actor,
		memberService: memberSvc,
		ledgerService: ledgerSvc,
		table:         newTable(columns, 15),
		filter:        member.ListFilter{Page: 1, Limit: member.DefaultPageSize},
		loading:       true,
	}
}

func (m MembersModel) Title() string { return "Members" }

func (m MembersModel) ShortHelp() string {
	switch m.state {
	case membersStateSearch, membersStateRecord:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | /: search | f: filter | s: sort | o: order | n/p: page | c: contribution | t: transaction | g: registration"
}

func (m MembersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m MembersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMembersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.page = msg.page
		m.refreshTable()

		return m, nil

	case recordResultMsg:
		m.pending = false
		m.closeForm()

		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("%s failed: %s", msg.kind, apperror.Message(msg.err)))
			return m, nil
		}

		m.status = fmt.Sprintf("%s saved (%s).", msg.kind, msg.id)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case membersStateSearch, membersStateRecord:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m MembersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			return m.openForm(membersStateSearch, m.searchForm())
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(memberFilters)
			m.filter.Filter = memberFilters[m.filterIdx]
			m.filter.Page = 1

			return m, m.loadCmd()
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(memberSorts)
			m.filter.Sort = memberSorts[m.sortIdx]

			return m, m.loadCmd()
		case "o":
			if m.filter.Order == member.OrderAsc {
				m.filter.Order = member.OrderDesc
			} else {
				m.filter.Order = member.OrderAsc
			}

			return m, m.loadCmd()
		case "n":
			if m.page != nil && m.filter.Page < m.page.TotalPages {
				m.filter.Page++
				return m, m.loadCmd()
			}
		case "p":
			if m.filter.Page > 1 {
				m.filter.Page--
				return m, m.loadCmd()
			}
		case "c":
			return m.startRecord(recordContribution)
		case "t":
			return m.startRecord(recordTransaction)
		case "g":
			return m.startRecord(recordRegistration)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m MembersModel) startRecord(kind recordKind) (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if m.page == nil || idx < 0 || idx >= len(m.page.Members) {
		return m, nil
	}

	target := m.page.Members[idx]
	m.target = &target
	m.kind = kind

	var form *huh.Form

	switch kind {
	case recordContribution:
		form = huh.NewForm(
			huh.NewGroup(
				amountInput(),
				huh.NewInput().
					Key("purpose").
					Title("Purpose").
					Placeholder(ledger.PurposeMonthly),
			),
		)
	case recordTransaction:
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Key("type").
					Title("Type").
					Options(
						huh.NewOption("Deposit", string(ledger.TypeDeposit)),
						huh.NewOption("Withdrawal", string(ledger.TypeWithdrawal)),
					),
				amountInput(),
				huh.NewInput().
					Key("purpose").
					Title("Purpose"),
			),
		)
	case recordRegistration:
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Key("confirm").
					Title(fmt.Sprintf(
						"Record registration fee of %s?",
						FormatAmount(m.ledgerService.Policy().RegistrationFee),
					)).
					Affirmative("Record").
					Negative("Cancel"),
			),
		)
	}

	return m.openForm(membersStateRecord, form.WithWidth(45).WithShowHelp(false))
}

func (m MembersModel) searchForm() *huh.Form {
	search := m.filter.Search

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("search").
				Title("Search name or phone").
				Value(&search),
		),
	).WithWidth(45).WithShowHelp(false)
}

func amountInput() *huh.Input {
	return huh.NewInput().
		Key("amount").
		Title("Amount (KES)").
		Validate(func(s string) error {
			_, err := parseAmount(s)
			return err
		})
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.New("amount must be a number")
	}

	if !d.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than zero")
	}

	return d, nil
}

func (m MembersModel) openForm(state membersState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.form = form
	m.state = state
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m *MembersModel) closeForm() {
	m.state = membersStateBrowse
	m.form = nil
	m.target = nil
	m.table.Focus()
}

func (m MembersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && !m.pending {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted || m.pending {
		return m, cmd
	}

	if m.state == membersStateSearch {
		m.filter.Search = strings.TrimSpace(m.form.GetString("search"))
		m.filter.Page = 1
		m.closeForm()

		return m, m.loadCmd()
	}

	if m.kind == recordRegistration && !m.form.GetBool("confirm") {
		m.closeForm()
		return m, nil
	}

	m.pending = true

	return m, m.recordCmd()
}

func (m MembersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading members...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle("Error: " + apperror.Message(m.err)))
	}

	filterLabels := []string{"All", "Defaulters", "Active"}
	order := m.filter.Order
	if order == "" {
		order = member.OrderDesc
	}

	header := fmt.Sprintf(
		"[f] Filter: %s | [s] Sort: %s %s | [/] Search: %s | Page %d of %d (%d members)",
		activeStyle(filterLabels[m.filterIdx]),
		activeStyle(string(memberSorts[m.sortIdx])),
		activeStyle(string(order)),
		activeStyle(m.filter.Search),
		m.page.Page, m.page.TotalPages, m.page.Total,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil {
		title := "Search Members"
		if m.state == membersStateRecord && m.target != nil {
			title = fmt.Sprintf("%s\n\n%s (%s)\nBalance: %s",
				m.kind, m.target.FullName(), m.target.PhoneNumber, FormatAmount(m.target.Balance))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *MembersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.page.Members))
	for _, s := range m.page.Members {
		registered := "no"
		if s.RegistrationPaid {
			registered = "yes"
		}

		rows = append(rows, table.Row{
			s.FullName(),
			s.PhoneNumber,
			s.Position,
			FormatAmount(s.Balance),
			FormatAmount(s.CurrentMonthContribution),
			fmt.Sprintf("%d", s.ContributionMonths),
			registered,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadMembersMsg struct {
	page *member.Page
	err  error
}

func (m MembersModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.memberService.List(ctx, filter)
		return loadMembersMsg{page: page, err: err}
	}
}

type recordResultMsg struct {
	kind recordKind
	id   uuid.UUID
	err  error
}

func (m MembersModel) recordCmd() tea.Cmd {
	kind := m.kind
	memberID := m.target.ID
	actorID := m.Actor.ID
	purpose := strings.TrimSpace(m.form.GetString("purpose"))
	txType := ledger.Type(m.form.GetString("type"))
	amount, _ := parseAmount(m.form.GetString("amount"))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			id  uuid.UUID
			err error
		)

		switch kind {
		case recordContribution:
			id, err = m.ledgerService.RecordContribution(ctx, ledger.ContributionParams{
				MemberID: memberID,
				Amount:   amount,
				Purpose:  purpose,
				ActorID:  actorID,
			})
		case recordTransaction:
			id, err = m.ledgerService.RecordTransaction(ctx, ledger.TransactionParams{
				MemberID: memberID,
				Type:     txType,
				Amount:   amount,
				Purpose:  purpose,
				ActorID:  actorID,
			})
		case recordRegistration:
			id, err = m.ledgerService.RecordRegistration(ctx, ledger.RegistrationParams{
				MemberID: memberID,
				ActorID:  actorID,
			})
		}

		return recordResultMsg{kind: kind, id: id, err: err}
	}
}
