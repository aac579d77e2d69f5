// Package stats computes point-in-time aggregates over members and their
// contributions. It reads committed state only and never caches.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

type Snapshot struct {
	TotalMembers         int
	RegisteredMembers    int
	PendingRegistrations int
	TotalBalance         decimal.Decimal
	PaidThisMonth        int
}

//go:generate mockgen -source=stats.go -destination=repository_mock.go -package=stats
type Repository interface {
	// Snapshot aggregates members and the paid contributions for month,
	// which is the first day of a calendar month.
	Snapshot(ctx context.Context, month time.Time) (*Snapshot, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock returns a copy of the service that reads the current month from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{repo: s.repo, now: now}
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := s.repo.Snapshot(ctx, ledger.MonthOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("computing stats snapshot: %w", err)
	}

	return snap, nil
}

// Defaulted is the amount owed for the current month by members who have not
// paid it.
func Defaulted(snap *Snapshot, policy ledger.Policy) decimal.Decimal {
	return policy.Defaulted(snap.TotalMembers, snap.PaidThisMonth)
}
