package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/chama/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/chama/internal/auth"
	authStore "github.com/MrJamesThe3rd/chama/internal/auth/store"
	"github.com/MrJamesThe3rd/chama/internal/config"
	"github.com/MrJamesThe3rd/chama/internal/database"
	"github.com/MrJamesThe3rd/chama/internal/export"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/chama/internal/ledger/store"
	chamaLog "github.com/MrJamesThe3rd/chama/internal/log"
	"github.com/MrJamesThe3rd/chama/internal/member"
	memberStore "github.com/MrJamesThe3rd/chama/internal/member/store"
	"github.com/MrJamesThe3rd/chama/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/chama/internal/notification/store"
	"github.com/MrJamesThe3rd/chama/internal/report"
	reportStore "github.com/MrJamesThe3rd/chama/internal/report/store"
	"github.com/MrJamesThe3rd/chama/internal/roster"
	rosterStore "github.com/MrJamesThe3rd/chama/internal/roster/store"
	"github.com/MrJamesThe3rd/chama/internal/stats"
	statsStore "github.com/MrJamesThe3rd/chama/internal/stats/store"
)

type View int

const (
	ViewLogin         View = 0
	ViewMenu          View = 1
	ViewDashboard     View = 2
	ViewMembers       View = 3
	ViewImport        View = 4
	ViewReports       View = 5
	ViewNotifications View = 6
)

type model struct {
	authService         *auth.Service
	ledgerService       *ledger.Service
	memberService       *member.Service
	rosterService       *roster.Service
	notificationService *notification.Service
	reportService       *report.Service
	exportService       *export.Service

	session     view.CommonModel
	currentView View
	window      tea.WindowSizeMsg

	loginView         view.LoginModel
	dashboardView     view.DashboardModel
	membersView       view.MembersModel
	importView        view.ImportModel
	reportsView       view.ReportsModel
	notificationsView view.NotificationsModel
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	policy, err := cfg.Policy()
	if err != nil {
		slog.Error("invalid ledger policy", "error", err)
		os.Exit(1)
	}

	logger := chamaLog.New(os.Stderr, chamaLog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(chamaLog.Component(logger, chamaLog.ComponentApp))

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	statsSvc := stats.NewService(statsStore.New(db))
	authSvc := auth.NewService(authStore.New(db), []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	reportSvc := report.NewService(reportStore.New(db), statsSvc, policy)

	return model{
		authService: authSvc,
		ledgerService: ledger.NewService(
			ledgerStore.New(db, cfg.DB.AcquireTimeout),
			policy,
			ledger.WithLogger(chamaLog.Component(logger, chamaLog.ComponentLedger)),
		),
		memberService:       member.NewService(memberStore.New(db), statsSvc, policy, cfg.Ledger.TreasurerPhone),
		rosterService:       roster.NewService(rosterStore.New(db)),
		notificationService: notification.NewService(notificationStore.New(db)),
		reportService:       reportSvc,
		exportService:       export.NewService(reportSvc),
		currentView:         ViewLogin,
		loginView:           view.NewLoginModel(authSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.window = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.reportService)

				return m, m.open(m.dashboardView.Init())
			case "2":
				m.currentView = ViewMembers
				m.membersView = view.NewMembersModel(m.session, m.memberService, m.ledgerService)

				return m, m.open(m.membersView.Init())
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.rosterService)

				return m, m.open(m.importView.Init())
			case "4":
				m.currentView = ViewReports
				m.reportsView = view.NewReportsModel(m.session, m.exportService)

				return m, m.open(m.reportsView.Init())
			case "5":
				m.currentView = ViewNotifications
				m.notificationsView = view.NewNotificationsModel(m.session, m.notificationService)

				return m, m.open(m.notificationsView.Init())
			}
		}
	case view.LoggedInMsg:
		m.session = view.CommonModel{Actor: msg.Actor}
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewMembers:
		var newModel tea.Model
		newModel, cmd = m.membersView.Update(msg)
		m.membersView = newModel.(view.MembersModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReports:
		var newModel tea.Model
		newModel, cmd = m.reportsView.Update(msg)
		m.reportsView = newModel.(view.ReportsModel)
	case ViewNotifications:
		var newModel tea.Model
		newModel, cmd = m.notificationsView.Update(msg)
		m.notificationsView = newModel.(view.NotificationsModel)
	}

	return m, cmd
}

// open starts a freshly built view and replays the last window size to it.
func (m model) open(init tea.Cmd) tea.Cmd {
	if m.window.Width == 0 {
		return init
	}

	size := m.window

	return tea.Batch(init, func() tea.Msg { return size })
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return withHelp(m.loginView)
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Chama Treasury - " + m.session.Actor.Name + "\n\n" +
				"1. Dashboard\n" +
				"2. Members\n" +
				"3. Import Roster\n" +
				"4. Reports\n" +
				"5. Notifications\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return withHelp(m.dashboardView)
	case ViewMembers:
		return withHelp(m.membersView)
	case ViewImport:
		return withHelp(m.importView)
	case ViewReports:
		return withHelp(m.reportsView)
	case ViewNotifications:
		return withHelp(m.notificationsView)
	}

	return "Unknown View"
}

func withHelp(v view.View) string {
	footer := lipgloss.NewStyle().Faint(true).PaddingLeft(2).Render(v.Title() + " | " + v.ShortHelp())
	return lipgloss.JoinVertical(lipgloss.Left, v.View(), footer)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
