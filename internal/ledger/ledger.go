package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the direction of a ledger transaction as stored.
type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
)

func (t Type) Valid() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// Movement is Type resolved to its effect on a balance.
type Movement int

const (
	Credit Movement = iota + 1
	Debit
)

func (t Type) Movement() Movement {
	if t == TypeWithdrawal {
		return Debit
	}

	return Credit
}

// Signed returns amount with the sign this movement applies to a balance.
func (m Movement) Signed(amount decimal.Decimal) decimal.Decimal {
	if m == Debit {
		return amount.Neg()
	}

	return amount
}

func (m Movement) ChangeType() ChangeType {
	if m == Debit {
		return ChangeDecrease
	}

	return ChangeIncrease
}

// Status is always StatusCompleted; there is no pending transaction state.
type Status string

const StatusCompleted Status = "completed"

const (
	PurposeMonthly      = "monthly"
	PurposeRegistration = "registration"
)

type ContributionStatus string

const (
	ContributionPaid    ContributionStatus = "paid"
	ContributionPending ContributionStatus = "pending"
)

type ChangeType string

const (
	ChangeIncrease ChangeType = "increase"
	ChangeDecrease ChangeType = "decrease"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

// Member is a chama member. Balance always equals the signed sum of the
// member's committed transactions.
type Member struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	PhoneNumber      string
	Position         string
	ProfilePic       string
	Balance          decimal.Decimal
	RegistrationPaid bool
	CreatedAt        time.Time
}

func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Transaction is an append-only ledger record.
type Transaction struct {
	ID          uuid.UUID
	MemberID    uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Purpose     string
	Status      Status
	TreasurerID uuid.UUID
	CreatedAt   time.Time
}

// SignedAmount is the transaction's contribution to the member balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	return t.Type.Movement().Signed(t.Amount)
}

// MonthlyContribution links a member's payment to the calendar month it covers.
// Month is always the first day of that month.
type MonthlyContribution struct {
	ID            uuid.UUID
	MemberID      uuid.UUID
	Month         time.Time
	Amount        decimal.Decimal
	Status        ContributionStatus
	TransactionID uuid.UUID
}

// Notification is addressed to a member, or broadcast when MemberID is nil.
type Notification struct {
	ID          uuid.UUID
	MemberID    *uuid.UUID
	TreasurerID *uuid.UUID
	Message     string
	Type        NotificationType
	CreatedAt   time.Time
}

// TreasuryLog records how a transaction moved the aggregate treasury balance.
type TreasuryLog struct {
	ID              uuid.UUID
	TransactionID   uuid.UUID
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	ChangeAmount    decimal.Decimal
	ChangeType      ChangeType
	TreasurerID     uuid.UUID
	CreatedAt       time.Time
}

// MonthOf truncates t to the first day of its calendar month.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
