package member

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

const (
	recentTransactionsLimit = 5
	contributionsLimit      = 12

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Profile is the member self-service view.
type Profile struct {
	Member               ledger.Member
	TreasurerPhone       string
	DefaultedAmount      decimal.Decimal
	TreasuryBalance      decimal.Decimal
	MemberCount          int
	RegisteredMembers    int
	PendingRegistrations int
	RecentTransactions   []ledger.Transaction
	MonthlyContributions []ledger.MonthlyContribution
}

// Summary is one row of the treasurer's member list.
type Summary struct {
	ledger.Member
	TotalTransactions        decimal.Decimal
	ContributionMonths       int
	CurrentMonthContribution decimal.Decimal
}

type Filter string

const (
	FilterAll        Filter = ""
	FilterDefaulters Filter = "defaulters"
	FilterActive     Filter = "active"
)

// SortField names a sortable column. Only the values below are accepted.
type SortField string

const (
	SortFirstName SortField = "firstName"
	SortLastName  SortField = "lastName"
	SortPhone     SortField = "phoneNumber"
	SortBalance   SortField = "balance"
	SortCreatedAt SortField = "createdAt"
)

func (f SortField) Valid() bool {
	switch f {
	case SortFirstName, SortLastName, SortPhone, SortBalance, SortCreatedAt:
		return true
	}

	return false
}

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

type ListFilter struct {
	Search string
	Filter Filter
	Sort   SortField
	Order  Order
	Page   int
	Limit  int
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Page struct {
	Members    []Summary
	Total      int
	Page       int
	TotalPages int
}

var (
	ErrInvalidFilter = apperror.New(apperror.KindValidation, "filter must be defaulters or active")
	ErrInvalidSort   = apperror.New(apperror.KindValidation, "unsupported sort field")
	ErrInvalidOrder  = apperror.New(apperror.KindValidation, "order must be asc or desc")
)
