package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) MonthlyRows(ctx context.Context, month time.Time) ([]report.MonthlyRow, error) {
	query := `
		SELECT m.first_name, m.last_name, m.phone_number,
		       COALESCE(mc.amount, 0), mc.status, mc.month,
		       t.type, t.purpose
		FROM members m
		LEFT JOIN monthly_contributions mc ON mc.member_id = m.id AND mc.month = $1
		LEFT JOIN transactions t ON t.id = mc.transaction_id
		ORDER BY m.first_name, m.last_name
	`

	rows, err := s.db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("querying monthly report: %w", err)
	}
	defer rows.Close()

	var out []report.MonthlyRow

	for rows.Next() {
		var (
			r               report.MonthlyRow
			status          sql.NullString
			paidMonth       sql.NullTime
			txType, purpose sql.NullString
		)

		if err := rows.Scan(&r.FirstName, &r.LastName, &r.PhoneNumber, &r.Amount, &status, &paidMonth, &txType, &purpose); err != nil {
			return nil, fmt.Errorf("scanning monthly report row: %w", err)
		}

		r.Status = ledger.ContributionPending
		if status.Valid {
			r.Status = ledger.ContributionStatus(status.String)
		}
		r.Month = month

		if paidMonth.Valid {
			r.Month = paidMonth.Time
		}

		r.Type = ledger.Type(txType.String)
		r.Purpose = purpose.String

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly report: %w", err)
	}

	return out, nil
}

// AnnualRows aggregates each member's activity in separate subqueries so the
// transaction and contribution joins cannot multiply each other's rows.
func (s *Store) AnnualRows(ctx context.Context, start, end time.Time) ([]report.AnnualRow, error) {
	query := `
		SELECT m.first_name, m.last_name, m.phone_number,
		       COALESCE(tx.deposits, 0), COALESCE(tx.withdrawals, 0), COALESCE(mc.months, 0)
		FROM members m
		LEFT JOIN LATERAL (
			SELECT SUM(t.amount) FILTER (WHERE t.type = 'deposit')    AS deposits,
			       SUM(t.amount) FILTER (WHERE t.type = 'withdrawal') AS withdrawals
			FROM transactions t
			WHERE t.member_id = m.id AND t.created_at >= $1 AND t.created_at < $2
		) tx ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS months
			FROM monthly_contributions c
			WHERE c.member_id = m.id AND c.status = 'paid' AND c.month >= $1 AND c.month < $2
		) mc ON TRUE
		ORDER BY m.first_name, m.last_name
	`

	rows, err := s.db.QueryContext(ctx, query, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("querying annual report: %w", err)
	}
	defer rows.Close()

	var out []report.AnnualRow

	for rows.Next() {
		var r report.AnnualRow
		if err := rows.Scan(&r.FirstName, &r.LastName, &r.PhoneNumber, &r.TotalDeposits, &r.TotalWithdrawals, &r.ContributionMonths); err != nil {
			return nil, fmt.Errorf("scanning annual report row: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating annual report: %w", err)
	}

	return out, nil
}

type reportData struct {
	Title       string              `json:"title"`
	GeneratedAt time.Time           `json:"generatedDate"`
	GeneratedBy string              `json:"generatedBy"`
	Monthly     []report.MonthlyRow `json:"monthly,omitempty"`
	Annual      []report.AnnualRow  `json:"annual,omitempty"`
}

func (s *Store) SaveReport(ctx context.Context, r *report.Report, generatedBy uuid.UUID) error {
	data, err := json.Marshal(reportData{
		Title:       r.Title,
		GeneratedAt: r.GeneratedAt,
		GeneratedBy: r.GeneratedBy,
		Monthly:     r.Monthly,
		Annual:      r.Annual,
	})
	if err != nil {
		return fmt.Errorf("encoding report data: %w", err)
	}

	query := `
		INSERT INTO reports (id, type, period_start, period_end, data, generated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := s.db.ExecContext(ctx, query,
		r.ID, string(r.Type), r.PeriodStart, r.PeriodEnd, data, generatedBy, r.GeneratedAt,
	); err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	return nil
}

func (s *Store) ContributionTrends(ctx context.Context, since time.Time) ([]report.MonthTrend, error) {
	query := `
		SELECT month,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'paid'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0)
		FROM monthly_contributions
		WHERE month >= $1
		GROUP BY month
		ORDER BY month
	`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("querying contribution trends: %w", err)
	}
	defer rows.Close()

	var out []report.MonthTrend

	for rows.Next() {
		var (
			t     report.MonthTrend
			total decimal.Decimal
		)

		if err := rows.Scan(&t.Month, &t.Members, &t.PaidMembers, &total); err != nil {
			return nil, fmt.Errorf("scanning contribution trend: %w", err)
		}

		t.TotalAmount = total
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contribution trends: %w", err)
	}

	return out, nil
}

func (s *Store) RecentTransactions(ctx context.Context, limit int) ([]report.RecentTransaction, error) {
	query := `
		SELECT t.id, t.member_id, t.type, t.amount, t.purpose, t.status, t.treasurer_id, t.created_at,
		       m.first_name, m.last_name, m.phone_number
		FROM transactions t
		JOIN members m ON m.id = t.member_id
		ORDER BY t.created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent transactions: %w", err)
	}
	defer rows.Close()

	var out []report.RecentTransaction

	for rows.Next() {
		var rt report.RecentTransaction
		if err := rows.Scan(
			&rt.ID, &rt.MemberID, &rt.Type, &rt.Amount, &rt.Purpose, &rt.Status, &rt.TreasurerID, &rt.CreatedAt,
			&rt.FirstName, &rt.LastName, &rt.PhoneNumber,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		out = append(out, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return out, nil
}
