package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/stats"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	MonthlyRows(ctx context.Context, month time.Time) ([]MonthlyRow, error)
	AnnualRows(ctx context.Context, start, end time.Time) ([]AnnualRow, error)
	SaveReport(ctx context.Context, r *Report, generatedBy uuid.UUID) error
	// ContributionTrends groups contributions by month from since onwards,
	// oldest first.
	ContributionTrends(ctx context.Context, since time.Time) ([]MonthTrend, error)
	RecentTransactions(ctx context.Context, limit int) ([]RecentTransaction, error)
}

type StatsReader interface {
	Snapshot(ctx context.Context) (*stats.Snapshot, error)
}

type Service struct {
	repo   Repository
	stats  StatsReader
	policy ledger.Policy
	now    func() time.Time
}

func NewService(repo Repository, st StatsReader, policy ledger.Policy) *Service {
	return &Service{repo: repo, stats: st, policy: policy, now: time.Now}
}

// WithClock returns a copy of the service that reads the current time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now

	return &c
}

// Generate builds the report for the requested period and stores it.
func (s *Service) Generate(ctx context.Context, req Request, by auth.Actor) (*Report, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	if req.Date.IsZero() {
		return nil, ErrMissingDate
	}

	if by.ID == uuid.Nil {
		return nil, auth.ErrMissingToken
	}

	start, end := req.Period()

	r := &Report{
		ID:          uuid.New(),
		Type:        req.Type,
		Title:       req.Type.Title(),
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: s.now(),
		GeneratedBy: by.Name,
	}

	var err error

	switch req.Type {
	case TypeMonthly:
		r.Monthly, err = s.repo.MonthlyRows(ctx, start)
	case TypeAnnual:
		r.Annual, err = s.repo.AnnualRows(ctx, start, end)
	}

	if err != nil {
		return nil, fmt.Errorf("collecting %s report rows: %w", req.Type, err)
	}

	if err := s.repo.SaveReport(ctx, r, by.ID); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}

	return r, nil
}

func (s *Service) TreasurySummary(ctx context.Context) (*TreasurySummary, error) {
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	trends, err := s.trends(ctx)
	if err != nil {
		return nil, err
	}

	return &TreasurySummary{
		Summary: Summary{
			TotalBalance:              snap.TotalBalance,
			CurrentMonthContributions: s.currentMonthAmount(trends),
			PendingPayments:           stats.Defaulted(snap, s.policy),
			TotalMembers:              snap.TotalMembers,
			PaidThisMonth:             snap.PaidThisMonth,
		},
		MonthlyTrends: trends,
	}, nil
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	trends, err := s.trends(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.RecentTransactions(ctx, RecentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("loading recent transactions: %w", err)
	}

	return &Dashboard{
		Stats: DashboardStats{
			TotalBalance:         snap.TotalBalance,
			MonthlyContributions: s.currentMonthAmount(trends),
			PendingPayments:      stats.Defaulted(snap, s.policy),
			TotalMembers:         snap.TotalMembers,
			RegisteredMembers:    snap.RegisteredMembers,
			PendingRegistrations: snap.PendingRegistrations,
			PaidThisMonth:        snap.PaidThisMonth,
		},
		Transactions:      txs,
		ContributionStats: trends,
	}, nil
}

func (s *Service) trends(ctx context.Context) ([]MonthTrend, error) {
	since := ledger.MonthOf(s.now()).AddDate(0, -(TrendMonths - 1), 0)

	trends, err := s.repo.ContributionTrends(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("loading contribution trends: %w", err)
	}

	return trends, nil
}

func (s *Service) currentMonthAmount(trends []MonthTrend) decimal.Decimal {
	month := ledger.MonthOf(s.now())

	for _, t := range trends {
		if t.Month.Year() == month.Year() && t.Month.Month() == month.Month() {
			return t.TotalAmount
		}
	}

	return decimal.Zero
}
