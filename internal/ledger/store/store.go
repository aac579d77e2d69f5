package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

type Store struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// New returns a ledger store. acquireTimeout bounds how long Begin waits for
// a pooled connection.
func New(db *sql.DB, acquireTimeout time.Duration) *Store {
	return &Store{db: db, acquireTimeout: acquireTimeout}
}

type unitOfWork struct {
	conn *sql.Conn
	tx   *sql.Tx
	done bool
}

// Begin acquires a dedicated connection and opens a READ COMMITTED
// transaction on it.
func (s *Store) Begin(ctx context.Context) (ledger.UnitOfWork, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, s.acquireTimeout)
	defer cancel()

	conn, err := s.db.Conn(acquireCtx)
	if err != nil {
		return nil, acquireError(ctx, acquireCtx, err)
	}

	tx, err := conn.BeginTx(context.WithoutCancel(ctx), &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &unitOfWork{conn: conn, tx: tx}, nil
}

// acquireError reports pool exhaustion only when the acquire timeout expired
// while the caller's own context was still live.
func acquireError(ctx, acquireCtx context.Context, err error) error {
	if ctx.Err() == nil && errors.Is(acquireCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("acquiring connection: %w", ledger.ErrResourceExhausted)
	}

	return fmt.Errorf("acquiring connection: %w", err)
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return sql.ErrTxDone
	}

	u.done = true
	defer u.conn.Close()

	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}

	u.done = true
	defer u.conn.Close()

	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back ledger tx: %w", err)
	}

	return nil
}

// LockMember reads the member row and holds a row lock on it until the unit
// of work ends.
func (u *unitOfWork) LockMember(ctx context.Context, id uuid.UUID) (*ledger.Member, error) {
	query := `
		SELECT id, first_name, last_name, phone_number, position, profile_pic, balance, registration_paid, created_at
		FROM members
		WHERE id = $1
		FOR UPDATE
	`

	var m ledger.Member

	var pic sql.NullString

	err := u.tx.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.PhoneNumber, &m.Position, &pic,
		&m.Balance, &m.RegistrationPaid, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrMemberNotFound
		}

		return nil, fmt.Errorf("locking member: %w", err)
	}

	m.ProfilePic = pic.String

	return &m, nil
}

func (u *unitOfWork) InsertTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (member_id, type, amount, purpose, status, treasurer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := u.tx.QueryRowContext(ctx, query,
		tx.MemberID,
		tx.Type,
		tx.Amount,
		tx.Purpose,
		tx.Status,
		tx.TreasurerID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		if isPgCode(err, checkViolation) {
			return fmt.Errorf("inserting transaction: %w", ledger.ErrInvalidAmount)
		}

		return fmt.Errorf("inserting transaction: %w", err)
	}

	return nil
}

// AdjustBalance adds delta to the member balance and returns the new balance.
// The balance >= 0 check constraint backs up the engine's overdraft check.
func (u *unitOfWork) AdjustBalance(ctx context.Context, memberID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE members
		SET balance = balance + $1
		WHERE id = $2
		RETURNING balance
	`

	var balance decimal.Decimal

	err := u.tx.QueryRowContext(ctx, query, delta, memberID).Scan(&balance)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return decimal.Zero, ledger.ErrMemberNotFound
		case isPgCode(err, checkViolation):
			return decimal.Zero, ledger.ErrInsufficientFunds
		}

		return decimal.Zero, fmt.Errorf("adjusting balance: %w", err)
	}

	return balance, nil
}

func (u *unitOfWork) MarkRegistered(ctx context.Context, memberID uuid.UUID) error {
	query := `
		UPDATE members
		SET registration_paid = TRUE
		WHERE id = $1 AND registration_paid = FALSE
	`

	res, err := u.tx.ExecContext(ctx, query, memberID)
	if err != nil {
		return fmt.Errorf("marking member registered: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking member registered: %w", err)
	}

	if n == 0 {
		return ledger.ErrAlreadyRegistered
	}

	return nil
}

func (u *unitOfWork) InsertContribution(ctx context.Context, c *ledger.MonthlyContribution) error {
	query := `
		INSERT INTO monthly_contributions (member_id, month, amount, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := u.tx.QueryRowContext(ctx, query,
		c.MemberID,
		c.Month,
		c.Amount,
		c.Status,
		c.TransactionID,
	).Scan(&c.ID)
	if err != nil {
		if isPgCode(err, uniqueViolation) {
			return ledger.ErrContributionExists
		}

		return fmt.Errorf("inserting monthly contribution: %w", err)
	}

	return nil
}

func (u *unitOfWork) InsertTreasuryLog(ctx context.Context, l *ledger.TreasuryLog) error {
	query := `
		INSERT INTO treasury_logs (transaction_id, previous_balance, new_balance, change_amount, change_type, treasurer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := u.tx.QueryRowContext(ctx, query,
		l.TransactionID,
		l.PreviousBalance,
		l.NewBalance,
		l.ChangeAmount,
		l.ChangeType,
		l.TreasurerID,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting treasury log: %w", err)
	}

	return nil
}

func (u *unitOfWork) InsertNotification(ctx context.Context, n *ledger.Notification) error {
	query := `
		INSERT INTO notifications (member_id, treasurer_id, message, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := u.tx.QueryRowContext(ctx, query,
		n.MemberID,
		n.TreasurerID,
		n.Message,
		n.Type,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

// TreasuryBalance is the sum of all member balances as seen by this unit of
// work, including its own uncommitted changes.
func (u *unitOfWork) TreasuryBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := u.tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(balance), 0) FROM members`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing treasury balance: %w", err)
	}

	return total, nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
