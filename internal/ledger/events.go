package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRecorded is published after a unit of work commits.
type TransactionRecorded struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	MemberID      uuid.UUID       `json:"member_id"`
	TreasurerID   uuid.UUID       `json:"treasurer_id"`
	Type          Type            `json:"type"`
	Purpose       string          `json:"purpose"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event TransactionRecorded) error
}

// Observer receives one call per engine operation.
type Observer interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, TransactionRecorded) error { return nil }

type nopObserver struct{}

func (nopObserver) ObserveOperation(string, string, time.Duration) {}
