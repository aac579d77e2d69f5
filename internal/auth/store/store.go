package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/chama/internal/auth"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectTreasurerColumns = `id, first_name, last_name, phone_number, position, password_hash, created_at`

func scanTreasurer(s scanner) (*auth.Treasurer, error) {
	var t auth.Treasurer

	if err := s.Scan(&t.ID, &t.FirstName, &t.LastName, &t.PhoneNumber, &t.Position, &t.PasswordHash, &t.CreatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) CreateTreasurer(ctx context.Context, t *auth.Treasurer) error {
	query := `
		INSERT INTO treasurers (first_name, last_name, phone_number, position, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.FirstName,
		t.LastName,
		t.PhoneNumber,
		t.Position,
		t.PasswordHash,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrPhoneTaken
		}

		return fmt.Errorf("creating treasurer: %w", err)
	}

	return nil
}

func (s *Store) GetTreasurer(ctx context.Context, id uuid.UUID) (*auth.Treasurer, error) {
	query := `SELECT ` + selectTreasurerColumns + ` FROM treasurers WHERE id = $1`

	t, err := scanTreasurer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrTreasurerNotFound
		}

		return nil, fmt.Errorf("getting treasurer: %w", err)
	}

	return t, nil
}

func (s *Store) GetTreasurerByPhone(ctx context.Context, phoneNumber string) (*auth.Treasurer, error) {
	query := `SELECT ` + selectTreasurerColumns + ` FROM treasurers WHERE phone_number = $1`

	t, err := scanTreasurer(s.db.QueryRowContext(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrTreasurerNotFound
		}

		return nil, fmt.Errorf("getting treasurer by phone: %w", err)
	}

	return t, nil
}

func (s *Store) UpdateTreasurer(ctx context.Context, t *auth.Treasurer) error {
	query := `
		UPDATE treasurers
		SET first_name = $1, last_name = $2, phone_number = $3, password_hash = $4
		WHERE id = $5
	`

	res, err := s.db.ExecContext(ctx, query, t.FirstName, t.LastName, t.PhoneNumber, t.PasswordHash, t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrPhoneTaken
		}

		return fmt.Errorf("updating treasurer: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return auth.ErrTreasurerNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
