package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/member"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectMemberColumns = `
	m.id, m.first_name, m.last_name, m.phone_number, m.position, m.profile_pic,
	m.balance, m.registration_paid, m.created_at
`

// sortColumns maps the accepted sort fields to SQL. Input never reaches the
// query text any other way.
var sortColumns = map[member.SortField]string{
	member.SortFirstName: "m.first_name",
	member.SortLastName:  "m.last_name",
	member.SortPhone:     "m.phone_number",
	member.SortBalance:   "m.balance",
	member.SortCreatedAt: "m.created_at",
}

func scanMember(s scanner, extra ...any) (*ledger.Member, error) {
	var m ledger.Member

	var pic sql.NullString

	dest := append([]any{
		&m.ID, &m.FirstName, &m.LastName, &m.PhoneNumber, &m.Position, &pic,
		&m.Balance, &m.RegistrationPaid, &m.CreatedAt,
	}, extra...)

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	m.ProfilePic = pic.String

	return &m, nil
}

func (s *Store) GetMemberByPhone(ctx context.Context, phoneNumber string) (*ledger.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members m WHERE m.phone_number = $1`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrMemberNotFound
		}

		return nil, fmt.Errorf("getting member by phone: %w", err)
	}

	return m, nil
}

func (s *Store) RecentTransactions(ctx context.Context, memberID uuid.UUID, limit int) ([]ledger.Transaction, error) {
	query := `
		SELECT id, member_id, type, amount, purpose, status, treasurer_id, created_at
		FROM transactions
		WHERE member_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction

	for rows.Next() {
		var tx ledger.Transaction
		if err := rows.Scan(&tx.ID, &tx.MemberID, &tx.Type, &tx.Amount, &tx.Purpose, &tx.Status, &tx.TreasurerID, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) RecentContributions(ctx context.Context, memberID uuid.UUID, limit int) ([]ledger.MonthlyContribution, error) {
	query := `
		SELECT id, member_id, month, amount, status, transaction_id
		FROM monthly_contributions
		WHERE member_id = $1
		ORDER BY month DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer rows.Close()

	var out []ledger.MonthlyContribution

	for rows.Next() {
		var (
			c    ledger.MonthlyContribution
			txID *uuid.UUID
		)

		if err := rows.Scan(&c.ID, &c.MemberID, &c.Month, &c.Amount, &c.Status, &txID); err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}

		if txID != nil {
			c.TransactionID = *txID
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributions: %w", err)
	}

	return out, nil
}

func (s *Store) ListMembers(ctx context.Context, filter member.ListFilter, month time.Time) ([]member.Summary, int, error) {
	from := `
		FROM members m
		LEFT JOIN LATERAL (
			SELECT SUM(CASE WHEN t.type = 'deposit' THEN t.amount ELSE -t.amount END) AS total
			FROM transactions t WHERE t.member_id = m.id
		) tx ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS months
			FROM monthly_contributions mc WHERE mc.member_id = m.id AND mc.status = 'paid'
		) mc ON TRUE
		LEFT JOIN LATERAL (
			SELECT SUM(cur.amount) AS amount
			FROM monthly_contributions cur
			WHERE cur.member_id = m.id AND cur.month = $1 AND cur.status = 'paid'
		) cur ON TRUE
		WHERE TRUE`

	args := []any{month}
	argIdx := 2

	if filter.Search != "" {
		from += fmt.Sprintf(" AND (m.first_name ILIKE $%d OR m.last_name ILIKE $%d OR m.phone_number ILIKE $%d)",
			argIdx, argIdx, argIdx)

		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIdx++
	}

	switch filter.Filter {
	case member.FilterDefaulters:
		from += " AND COALESCE(cur.amount, 0) = 0"
	case member.FilterActive:
		from += " AND COALESCE(cur.amount, 0) > 0"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting members: %w", err)
	}

	column, ok := sortColumns[filter.Sort]
	if !ok {
		return nil, 0, member.ErrInvalidSort
	}

	direction := "ASC"
	if filter.Order == member.OrderDesc {
		direction = "DESC"
	}

	query := `SELECT ` + selectMemberColumns + `,
			COALESCE(tx.total, 0), COALESCE(mc.months, 0), COALESCE(cur.amount, 0)` + from +
		fmt.Sprintf(" ORDER BY %s %s, m.id LIMIT $%d OFFSET $%d", column, direction, argIdx, argIdx+1)

	args = append(args, filter.Limit, filter.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var out []member.Summary

	for rows.Next() {
		var sum member.Summary

		m, err := scanMember(rows, &sum.TotalTransactions, &sum.ContributionMonths, &sum.CurrentMonthContribution)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning member: %w", err)
		}

		sum.Member = *m
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating members: %w", err)
	}

	return out, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
