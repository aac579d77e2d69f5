package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
)

const (
	OpContribution = "contribution"
	OpTransaction  = "transaction"
	OpRegistration = "registration"

	OutcomeSuccess = "success"

	publishTimeout = 5 * time.Second
)

// Service is the transaction engine. It is the only writer of member
// balances, transactions, contributions, treasury logs and notifications,
// and it performs every mutation inside one unit of work.
type Service struct {
	repo      Repository
	policy    Policy
	publisher Publisher
	observer  Observer
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, policy Policy, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		policy:    policy,
		publisher: nopPublisher{},
		observer:  nopObserver{},
		logger:    slog.Default(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Policy() Policy {
	return s.policy
}

type ContributionParams struct {
	MemberID uuid.UUID
	Amount   decimal.Decimal
	Purpose  string
	ActorID  uuid.UUID
}

type TransactionParams struct {
	MemberID uuid.UUID
	Type     Type
	Amount   decimal.Decimal
	Purpose  string
	ActorID  uuid.UUID
}

type RegistrationParams struct {
	MemberID uuid.UUID
	ActorID  uuid.UUID
}

// entry is what a unit of work produced, used for the post-commit event.
type entry struct {
	tx      *Transaction
	balance decimal.Decimal
}

// RecordContribution credits a monthly contribution to the member and marks
// the current month as paid.
func (s *Service) RecordContribution(ctx context.Context, p ContributionParams) (uuid.UUID, error) {
	started := time.Now()

	if err := validate(p.MemberID, p.ActorID, p.Amount); err != nil {
		return uuid.Nil, s.finish(ctx, OpContribution, started, err)
	}

	purpose := p.Purpose
	if purpose == "" {
		purpose = PurposeMonthly
	}

	return s.execute(ctx, OpContribution, started, func(ctx context.Context, uow UnitOfWork) (*entry, error) {
		member, err := uow.LockMember(ctx, p.MemberID)
		if err != nil {
			return nil, err
		}

		tx := &Transaction{
			MemberID:    member.ID,
			Type:        TypeDeposit,
			Amount:      p.Amount,
			Purpose:     purpose,
			Status:      StatusCompleted,
			TreasurerID: p.ActorID,
		}
		if err := uow.InsertTransaction(ctx, tx); err != nil {
			return nil, err
		}

		balance, err := uow.AdjustBalance(ctx, member.ID, p.Amount)
		if err != nil {
			return nil, err
		}

		if err := uow.InsertContribution(ctx, s.paidContribution(tx)); err != nil {
			return nil, err
		}

		msg := fmt.Sprintf("Monthly contribution of KES %s received", kes(p.Amount))
		if err := uow.InsertNotification(ctx, memberNotice(member.ID, msg)); err != nil {
			return nil, err
		}

		return &entry{tx: tx, balance: balance}, nil
	})
}

// RecordTransaction applies a deposit or withdrawal. The member row stays
// locked from the balance check until the unit ends, so concurrent
// withdrawals cannot both pass the check against the same balance.
func (s *Service) RecordTransaction(ctx context.Context, p TransactionParams) (uuid.UUID, error) {
	started := time.Now()

	if err := validateTransaction(p); err != nil {
		return uuid.Nil, s.finish(ctx, OpTransaction, started, err)
	}

	return s.execute(ctx, OpTransaction, started, func(ctx context.Context, uow UnitOfWork) (*entry, error) {
		member, err := uow.LockMember(ctx, p.MemberID)
		if err != nil {
			return nil, err
		}

		movement := p.Type.Movement()
		if movement == Debit && p.Amount.GreaterThan(member.Balance) {
			return nil, ErrInsufficientFunds
		}

		tx := &Transaction{
			MemberID:    member.ID,
			Type:        p.Type,
			Amount:      p.Amount,
			Purpose:     p.Purpose,
			Status:      StatusCompleted,
			TreasurerID: p.ActorID,
		}
		if err := uow.InsertTransaction(ctx, tx); err != nil {
			return nil, err
		}

		delta := movement.Signed(p.Amount)

		balance, err := uow.AdjustBalance(ctx, member.ID, delta)
		if err != nil {
			return nil, err
		}

		if p.Purpose == PurposeMonthly {
			if err := uow.InsertContribution(ctx, s.paidContribution(tx)); err != nil {
				return nil, err
			}
		}

		treasury, err := uow.TreasuryBalance(ctx)
		if err != nil {
			return nil, err
		}

		log := &TreasuryLog{
			TransactionID:   tx.ID,
			PreviousBalance: treasury.Sub(delta),
			NewBalance:      treasury,
			ChangeAmount:    p.Amount,
			ChangeType:      movement.ChangeType(),
			TreasurerID:     p.ActorID,
		}
		if err := uow.InsertTreasuryLog(ctx, log); err != nil {
			return nil, err
		}

		if err := uow.InsertNotification(ctx, memberNotice(member.ID, movementMessage(movement, p.Amount))); err != nil {
			return nil, err
		}

		return &entry{tx: tx, balance: balance}, nil
	})
}

// RecordRegistration collects the one-time registration fee and moves the
// member from unregistered to registered.
func (s *Service) RecordRegistration(ctx context.Context, p RegistrationParams) (uuid.UUID, error) {
	started := time.Now()

	if err := validate(p.MemberID, p.ActorID, s.policy.RegistrationFee); err != nil {
		return uuid.Nil, s.finish(ctx, OpRegistration, started, err)
	}

	return s.execute(ctx, OpRegistration, started, func(ctx context.Context, uow UnitOfWork) (*entry, error) {
		member, err := uow.LockMember(ctx, p.MemberID)
		if err != nil {
			return nil, err
		}

		if member.RegistrationPaid {
			return nil, ErrAlreadyRegistered
		}

		tx := &Transaction{
			MemberID:    member.ID,
			Type:        TypeDeposit,
			Amount:      s.policy.RegistrationFee,
			Purpose:     PurposeRegistration,
			Status:      StatusCompleted,
			TreasurerID: p.ActorID,
		}
		if err := uow.InsertTransaction(ctx, tx); err != nil {
			return nil, err
		}

		balance, err := uow.AdjustBalance(ctx, member.ID, tx.Amount)
		if err != nil {
			return nil, err
		}

		if err := uow.MarkRegistered(ctx, member.ID); err != nil {
			return nil, err
		}

		if err := uow.InsertNotification(ctx, memberNotice(member.ID, "Registration fee payment received successfully")); err != nil {
			return nil, err
		}

		return &entry{tx: tx, balance: balance}, nil
	})
}

func (s *Service) execute(
	ctx context.Context,
	op string,
	started time.Time,
	fn func(ctx context.Context, uow UnitOfWork) (*entry, error),
) (uuid.UUID, error) {
	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return uuid.Nil, s.finish(ctx, op, started, apperror.Storage(err))
	}
	defer uow.Rollback()

	// Once begun, a unit of work runs to commit or abort.
	work := context.WithoutCancel(ctx)

	e, err := fn(work, uow)
	if err != nil {
		return uuid.Nil, s.finish(ctx, op, started, apperror.Storage(err))
	}

	if err := uow.Commit(); err != nil {
		return uuid.Nil, s.finish(ctx, op, started, apperror.Storage(fmt.Errorf("committing %s: %w", op, err)))
	}

	s.publish(work, e)

	return e.tx.ID, s.finish(ctx, op, started, nil)
}

func (s *Service) publish(ctx context.Context, e *entry) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	event := TransactionRecorded{
		TransactionID: e.tx.ID,
		MemberID:      e.tx.MemberID,
		TreasurerID:   e.tx.TreasurerID,
		Type:          e.tx.Type,
		Purpose:       e.tx.Purpose,
		Amount:        e.tx.Amount,
		Balance:       e.balance,
		OccurredAt:    e.tx.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish ledger event",
			"transaction_id", e.tx.ID,
			"error", err)
	}
}

func (s *Service) finish(ctx context.Context, op string, started time.Time, err error) error {
	outcome := OutcomeSuccess

	if err != nil {
		kind := apperror.KindOf(err)
		outcome = string(kind)

		if kind == apperror.KindStorage || kind == apperror.KindResourceExhausted {
			s.logger.ErrorContext(ctx, "ledger operation failed", "operation", op, "error", err)
		} else {
			s.logger.InfoContext(ctx, "ledger operation rejected", "operation", op, "reason", kind)
		}
	}

	s.observer.ObserveOperation(op, outcome, time.Since(started))

	return err
}

func (s *Service) paidContribution(tx *Transaction) *MonthlyContribution {
	return &MonthlyContribution{
		MemberID:      tx.MemberID,
		Month:         MonthOf(s.now()),
		Amount:        tx.Amount,
		Status:        ContributionPaid,
		TransactionID: tx.ID,
	}
}

func validate(memberID, actorID uuid.UUID, amount decimal.Decimal) error {
	if memberID == uuid.Nil {
		return ErrMissingMember
	}

	if actorID == uuid.Nil {
		return ErrMissingActor
	}

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	// Amounts are stored in shillings and cents.
	if !amount.Equal(amount.Round(2)) {
		return ErrAmountPrecision
	}

	return nil
}

func validateTransaction(p TransactionParams) error {
	if err := validate(p.MemberID, p.ActorID, p.Amount); err != nil {
		return err
	}

	if !p.Type.Valid() {
		return ErrInvalidType
	}

	if p.Purpose == PurposeMonthly && p.Type != TypeDeposit {
		return ErrMonthlyWithdrawal
	}

	return nil
}

func memberNotice(memberID uuid.UUID, msg string) *Notification {
	return &Notification{
		MemberID: &memberID,
		Message:  msg,
		Type:     NotificationSuccess,
	}
}

func movementMessage(m Movement, amount decimal.Decimal) string {
	if m == Debit {
		return fmt.Sprintf("Withdrawal of KES %s from your account", kes(amount))
	}

	return fmt.Sprintf("Deposit of KES %s to your account", kes(amount))
}

func kes(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
