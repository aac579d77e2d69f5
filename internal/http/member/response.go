package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/member"
	"github.com/MrJamesThe3rd/chama/internal/roster"
)

type transactionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      ledger.Type     `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Purpose   string          `json:"purpose"`
	Status    ledger.Status   `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type contributionResponse struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

type profileResponse struct {
	ID                   uuid.UUID              `json:"id"`
	FirstName            string                 `json:"firstName"`
	LastName             string                 `json:"lastName"`
	PhoneNumber          string                 `json:"phoneNumber"`
	Position             string                 `json:"position"`
	Balance              decimal.Decimal        `json:"balance"`
	ProfilePic           string                 `json:"profilePic,omitempty"`
	RegistrationPaid     bool                   `json:"registrationPaid"`
	TreasurerPhone       string                 `json:"treasurerPhone"`
	DefaultedAmount      decimal.Decimal        `json:"defaultedAmount"`
	TreasuryBalance      decimal.Decimal        `json:"treasuryBalance"`
	MemberCount          int                    `json:"memberCount"`
	RegisteredMembers    int                    `json:"registeredMembers"`
	PendingRegistrations int                    `json:"pendingRegistrations"`
	RecentTransactions   []transactionResponse  `json:"recentTransactions"`
	MonthlyContributions []contributionResponse `json:"monthlyContributions"`
}

func toProfileResponse(p *member.Profile) profileResponse {
	resp := profileResponse{
		ID:                   p.Member.ID,
		FirstName:            p.Member.FirstName,
		LastName:             p.Member.LastName,
		PhoneNumber:          p.Member.PhoneNumber,
		Position:             p.Member.Position,
		Balance:              p.Member.Balance,
		ProfilePic:           p.Member.ProfilePic,
		RegistrationPaid:     p.Member.RegistrationPaid,
		TreasurerPhone:       p.TreasurerPhone,
		DefaultedAmount:      p.DefaultedAmount,
		TreasuryBalance:      p.TreasuryBalance,
		MemberCount:          p.MemberCount,
		RegisteredMembers:    p.RegisteredMembers,
		PendingRegistrations: p.PendingRegistrations,
		RecentTransactions:   make([]transactionResponse, len(p.RecentTransactions)),
		MonthlyContributions: make([]contributionResponse, len(p.MonthlyContributions)),
	}

	for i, tx := range p.RecentTransactions {
		resp.RecentTransactions[i] = transactionResponse{
			ID:        tx.ID,
			Type:      tx.Type,
			Amount:    tx.Amount,
			Purpose:   tx.Purpose,
			Status:    tx.Status,
			CreatedAt: tx.CreatedAt,
		}
	}

	for i, c := range p.MonthlyContributions {
		resp.MonthlyContributions[i] = contributionResponse{
			Month:  c.Month.Format("Jan"),
			Amount: c.Amount,
			Status: string(c.Status),
		}
	}

	return resp
}

type summaryResponse struct {
	ID                       uuid.UUID       `json:"id"`
	FirstName                string          `json:"firstName"`
	LastName                 string          `json:"lastName"`
	PhoneNumber              string          `json:"phoneNumber"`
	Position                 string          `json:"position"`
	Balance                  decimal.Decimal `json:"balance"`
	RegistrationPaid         bool            `json:"registrationPaid"`
	TotalTransactions        decimal.Decimal `json:"totalTransactions"`
	ContributionMonths       int             `json:"contributionMonths"`
	CurrentMonthContribution decimal.Decimal `json:"currentMonthContribution"`
	CreatedAt                time.Time       `json:"createdAt"`
}

type paginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

type pageResponse struct {
	Members    []summaryResponse  `json:"members"`
	Pagination paginationResponse `json:"pagination"`
}

func toPageResponse(p *member.Page) pageResponse {
	members := make([]summaryResponse, len(p.Members))
	for i, s := range p.Members {
		members[i] = summaryResponse{
			ID:                       s.ID,
			FirstName:                s.FirstName,
			LastName:                 s.LastName,
			PhoneNumber:              s.PhoneNumber,
			Position:                 s.Position,
			Balance:                  s.Balance,
			RegistrationPaid:         s.RegistrationPaid,
			TotalTransactions:        s.TotalTransactions,
			ContributionMonths:       s.ContributionMonths,
			CurrentMonthContribution: s.CurrentMonthContribution,
			CreatedAt:                s.CreatedAt,
		}
	}

	return pageResponse{
		Members: members,
		Pagination: paginationResponse{
			Total:      p.Total,
			Page:       p.Page,
			TotalPages: p.TotalPages,
		},
	}
}

type rowErrorResponse struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type importResponse struct {
	Imported int                `json:"imported"`
	Skipped  int                `json:"skipped"`
	Invalid  []rowErrorResponse `json:"invalid"`
}

func toImportResponse(r *roster.Result) importResponse {
	resp := importResponse{
		Imported: r.Imported,
		Skipped:  r.Skipped,
		Invalid:  make([]rowErrorResponse, len(r.Invalid)),
	}

	for i, e := range r.Invalid {
		resp.Invalid[i] = rowErrorResponse(e)
	}

	return resp
}
