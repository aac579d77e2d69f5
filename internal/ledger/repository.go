package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// Begin acquires a store session and opens a unit of work on it. The
	// session is released by Commit or Rollback.
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWork is an atomic group of ledger writes. Nothing written through it
// is visible to other sessions until Commit; Rollback discards everything and
// is safe to call after Commit.
type UnitOfWork interface {
	// LockMember reads the member and holds a row lock on it until the unit
	// ends. Returns ErrMemberNotFound when the member does not exist.
	LockMember(ctx context.Context, id uuid.UUID) (*Member, error)
	InsertTransaction(ctx context.Context, tx *Transaction) error
	// AdjustBalance adds delta to the member balance and returns the new balance.
	AdjustBalance(ctx context.Context, memberID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	// MarkRegistered flips RegistrationPaid; ErrAlreadyRegistered if it was already set.
	MarkRegistered(ctx context.Context, memberID uuid.UUID) error
	// InsertContribution returns ErrContributionExists for a second paid row in the same month.
	InsertContribution(ctx context.Context, c *MonthlyContribution) error
	InsertTreasuryLog(ctx context.Context, l *TreasuryLog) error
	InsertNotification(ctx context.Context, n *Notification) error
	// TreasuryBalance is the sum of all member balances as seen by this unit.
	TreasuryBalance(ctx context.Context) (decimal.Decimal, error)
	Commit() error
	Rollback() error
}
