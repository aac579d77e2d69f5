package member

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/phone"
	"github.com/MrJamesThe3rd/chama/internal/stats"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=member
type Repository interface {
	GetMemberByPhone(ctx context.Context, phoneNumber string) (*ledger.Member, error)
	RecentTransactions(ctx context.Context, memberID uuid.UUID, limit int) ([]ledger.Transaction, error)
	RecentContributions(ctx context.Context, memberID uuid.UUID, limit int) ([]ledger.MonthlyContribution, error)
	ListMembers(ctx context.Context, filter ListFilter, month time.Time) ([]Summary, int, error)
}

type StatsReader interface {
	Snapshot(ctx context.Context) (*stats.Snapshot, error)
}

type Service struct {
	repo           Repository
	stats          StatsReader
	policy         ledger.Policy
	treasurerPhone string
	now            func() time.Time
}

func NewService(repo Repository, st StatsReader, policy ledger.Policy, treasurerPhone string) *Service {
	return &Service{
		repo:           repo,
		stats:          st,
		policy:         policy,
		treasurerPhone: treasurerPhone,
		now:            time.Now,
	}
}

// WithClock returns a copy of the service that reads the current month from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now

	return &c
}

// GetByPhone builds the member's profile together with treasury-wide figures.
func (s *Service) GetByPhone(ctx context.Context, phoneNumber string) (*Profile, error) {
	number, err := phone.Normalize(phoneNumber)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetMemberByPhone(ctx, number)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.RecentTransactions(ctx, m.ID, recentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("loading recent transactions: %w", err)
	}

	contributions, err := s.repo.RecentContributions(ctx, m.ID, contributionsLimit)
	if err != nil {
		return nil, fmt.Errorf("loading contributions: %w", err)
	}

	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Member:               *m,
		TreasurerPhone:       s.treasurerPhone,
		DefaultedAmount:      stats.Defaulted(snap, s.policy),
		TreasuryBalance:      snap.TotalBalance,
		MemberCount:          snap.TotalMembers,
		RegisteredMembers:    snap.RegisteredMembers,
		PendingRegistrations: snap.PendingRegistrations,
		RecentTransactions:   txs,
		MonthlyContributions: contributions,
	}, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	members, total, err := s.repo.ListMembers(ctx, filter, ledger.MonthOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	return &Page{
		Members:    members,
		Total:      total,
		Page:       filter.Page,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func normalizeFilter(f ListFilter) (ListFilter, error) {
	f.Search = strings.TrimSpace(f.Search)

	switch f.Filter {
	case FilterAll, FilterDefaulters, FilterActive:
	default:
		return f, ErrInvalidFilter
	}

	if f.Sort == "" {
		f.Sort = SortFirstName
	}

	if !f.Sort.Valid() {
		return f, ErrInvalidSort
	}

	f.Order = Order(strings.ToLower(string(f.Order)))
	if f.Order == "" {
		f.Order = OrderAsc
	}

	if f.Order != OrderAsc && f.Order != OrderDesc {
		return f, ErrInvalidOrder
	}

	if f.Page < 1 {
		f.Page = 1
	}

	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}

	f.Limit = min(f.Limit, MaxPageSize)

	return f, nil
}
