package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/chama/internal/stats"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Snapshot(ctx context.Context, month time.Time) (*stats.Snapshot, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE registration_paid),
			COUNT(*) FILTER (WHERE NOT registration_paid),
			COALESCE(SUM(balance), 0),
			(SELECT COUNT(DISTINCT member_id)
			 FROM monthly_contributions
			 WHERE month = $1 AND status = 'paid')
		FROM members
	`

	var snap stats.Snapshot

	err := s.db.QueryRowContext(ctx, query, month).Scan(
		&snap.TotalMembers,
		&snap.RegisteredMembers,
		&snap.PendingRegistrations,
		&snap.TotalBalance,
		&snap.PaidThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("querying member stats: %w", err)
	}

	return &snap, nil
}
