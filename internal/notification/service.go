package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

const FeedSize = 50

// Entry is a notification with the addressed member's name, if any.
type Entry struct {
	ledger.Notification
	MemberFirstName string
	MemberLastName  string
}

var ErrMissingTreasurer = apperror.New(apperror.KindValidation, "treasurer is required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	// ListForTreasurer returns the newest notifications addressed to the
	// treasurer or broadcast to all, newest first.
	ListForTreasurer(ctx context.Context, treasurerID uuid.UUID, limit int) ([]Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, treasurerID uuid.UUID) ([]Entry, error) {
	if treasurerID == uuid.Nil {
		return nil, ErrMissingTreasurer
	}

	entries, err := s.repo.ListForTreasurer(ctx, treasurerID, FeedSize)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	return entries, nil
}
