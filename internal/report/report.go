package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

type Type string

const (
	TypeMonthly Type = "monthly"
	TypeAnnual  Type = "annual"
)

func (t Type) Valid() bool {
	return t == TypeMonthly || t == TypeAnnual
}

func (t Type) Title() string {
	if t == TypeAnnual {
		return "Annual Report"
	}

	return "Monthly Report"
}

const (
	TrendMonths             = 12
	RecentTransactionsLimit = 10
)

var (
	ErrInvalidType = apperror.New(apperror.KindValidation, "report type must be monthly or annual")
	ErrMissingDate = apperror.New(apperror.KindValidation, "report date is required")
)

// Request selects the period a report covers. Date may be any day within it.
type Request struct {
	Type Type
	Date time.Time
}

// Period returns the first and last day covered by the request.
func (r Request) Period() (time.Time, time.Time) {
	if r.Type == TypeAnnual {
		start := time.Date(r.Date.Year(), time.January, 1, 0, 0, 0, 0, r.Date.Location())
		return start, start.AddDate(1, 0, -1)
	}

	start := ledger.MonthOf(r.Date)

	return start, start.AddDate(0, 1, -1)
}

// MonthlyRow is one member's contribution for the reported month.
type MonthlyRow struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Amount      decimal.Decimal
	Status      ledger.ContributionStatus
	Month       time.Time
	Type        ledger.Type
	Purpose     string
}

// AnnualRow totals one member's activity over the reported year.
type AnnualRow struct {
	FirstName          string
	LastName           string
	PhoneNumber        string
	TotalDeposits      decimal.Decimal
	TotalWithdrawals   decimal.Decimal
	ContributionMonths int
}

type Report struct {
	ID          uuid.UUID
	Type        Type
	Title       string
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedAt time.Time
	GeneratedBy string
	Monthly     []MonthlyRow
	Annual      []AnnualRow
}

// MonthTrend aggregates the contributions recorded for one calendar month.
type MonthTrend struct {
	Month       time.Time
	Members     int
	PaidMembers int
	TotalAmount decimal.Decimal
}

type Summary struct {
	TotalBalance              decimal.Decimal
	CurrentMonthContributions decimal.Decimal
	PendingPayments           decimal.Decimal
	TotalMembers              int
	PaidThisMonth             int
}

type TreasurySummary struct {
	Summary       Summary
	MonthlyTrends []MonthTrend
}

// RecentTransaction is a ledger transaction with its member's details.
type RecentTransaction struct {
	ledger.Transaction
	FirstName   string
	LastName    string
	PhoneNumber string
}

type DashboardStats struct {
	TotalBalance         decimal.Decimal
	MonthlyContributions decimal.Decimal
	PendingPayments      decimal.Decimal
	TotalMembers         int
	RegisteredMembers    int
	PendingRegistrations int
	PaidThisMonth        int
}

type Dashboard struct {
	Stats             DashboardStats
	Transactions      []RecentTransaction
	ContributionStats []MonthTrend
}
