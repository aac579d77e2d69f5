package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/report"
)

const monthLayout = "2006-01"

type monthlyRowResponse struct {
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	PhoneNumber string          `json:"phoneNumber"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Month       string          `json:"month"`
	Type        string          `json:"type,omitempty"`
	Purpose     string          `json:"purpose,omitempty"`
}

type annualRowResponse struct {
	FirstName          string          `json:"firstName"`
	LastName           string          `json:"lastName"`
	PhoneNumber        string          `json:"phoneNumber"`
	TotalDeposits      decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals   decimal.Decimal `json:"totalWithdrawals"`
	ContributionMonths int             `json:"contributionMonths"`
}

type reportResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	GeneratedDate time.Time `json:"generatedDate"`
	GeneratedBy   string    `json:"generatedBy"`
	PeriodStart   string    `json:"periodStart"`
	PeriodEnd     string    `json:"periodEnd"`
	Data          any       `json:"data"`
}

func toReportResponse(r *report.Report) reportResponse {
	resp := reportResponse{
		ID:            r.ID,
		Title:         r.Title,
		GeneratedDate: r.GeneratedAt,
		GeneratedBy:   r.GeneratedBy,
		PeriodStart:   r.PeriodStart.Format(time.DateOnly),
		PeriodEnd:     r.PeriodEnd.Format(time.DateOnly),
	}

	switch r.Type {
	case report.TypeAnnual:
		rows := make([]annualRowResponse, len(r.Annual))
		for i, a := range r.Annual {
			rows[i] = annualRowResponse(a)
		}

		resp.Data = rows
	default:
		rows := make([]monthlyRowResponse, len(r.Monthly))
		for i, m := range r.Monthly {
			rows[i] = monthlyRowResponse{
				FirstName:   m.FirstName,
				LastName:    m.LastName,
				PhoneNumber: m.PhoneNumber,
				Amount:      m.Amount,
				Status:      string(m.Status),
				Month:       m.Month.Format(monthLayout),
				Type:        string(m.Type),
				Purpose:     m.Purpose,
			}
		}

		resp.Data = rows
	}

	return resp
}

type trendResponse struct {
	MonthYear   string          `json:"monthYear"`
	Members     int             `json:"totalMembers"`
	PaidMembers int             `json:"paidMembers"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func toTrends(trends []report.MonthTrend) []trendResponse {
	resp := make([]trendResponse, len(trends))
	for i, t := range trends {
		resp[i] = trendResponse{
			MonthYear:   t.Month.Format(monthLayout),
			Members:     t.Members,
			PaidMembers: t.PaidMembers,
			TotalAmount: t.TotalAmount,
		}
	}

	return resp
}

type summaryResponse struct {
	Summary struct {
		TotalBalance              decimal.Decimal `json:"totalBalance"`
		CurrentMonthContributions decimal.Decimal `json:"currentMonthContributions"`
		PendingPayments           decimal.Decimal `json:"pendingPayments"`
		TotalMembers              int             `json:"totalMembers"`
		PaidMembersThisMonth      int             `json:"paidMembersThisMonth"`
	} `json:"summary"`
	MonthlyTrends []trendResponse `json:"monthlyTrends"`
}

func toSummaryResponse(s *report.TreasurySummary) summaryResponse {
	var resp summaryResponse

	resp.Summary.TotalBalance = s.Summary.TotalBalance
	resp.Summary.CurrentMonthContributions = s.Summary.CurrentMonthContributions
	resp.Summary.PendingPayments = s.Summary.PendingPayments
	resp.Summary.TotalMembers = s.Summary.TotalMembers
	resp.Summary.PaidMembersThisMonth = s.Summary.PaidThisMonth
	resp.MonthlyTrends = toTrends(s.MonthlyTrends)

	return resp
}

type dashboardStatsResponse struct {
	TotalBalance         decimal.Decimal `json:"totalBalance"`
	MonthlyContributions decimal.Decimal `json:"monthlyContributions"`
	PendingPayments      decimal.Decimal `json:"pendingPayments"`
	TotalMembers         int             `json:"totalMembers"`
	RegisteredMembers    int             `json:"registeredMembers"`
	PendingRegistrations int             `json:"pendingRegistrations"`
	PaidThisMonth        int             `json:"paidThisMonth"`
}

type recentTransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	MemberID    uuid.UUID       `json:"memberId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Purpose     string          `json:"purpose"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	PhoneNumber string          `json:"phoneNumber"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type dashboardResponse struct {
	Stats             dashboardStatsResponse      `json:"stats"`
	Transactions      []recentTransactionResponse `json:"transactions"`
	ContributionStats []trendResponse             `json:"contributionStats"`
}

func toDashboardResponse(d *report.Dashboard) dashboardResponse {
	txs := make([]recentTransactionResponse, len(d.Transactions))
	for i, t := range d.Transactions {
		txs[i] = recentTransactionResponse{
			ID:          t.ID,
			MemberID:    t.MemberID,
			Type:        string(t.Type),
			Amount:      t.Amount,
			Purpose:     t.Purpose,
			FirstName:   t.FirstName,
			LastName:    t.LastName,
			PhoneNumber: t.PhoneNumber,
			CreatedAt:   t.CreatedAt,
		}
	}

	return dashboardResponse{
		Stats:             dashboardStatsResponse(d.Stats),
		Transactions:      txs,
		ContributionStats: toTrends(d.ContributionStats),
	}
}
