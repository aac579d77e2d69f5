package roster

import (
	"context"
	"fmt"
	"io"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=roster
type Repository interface {
	// InsertMembers adds the entries whose phone number is not yet taken and
	// returns how many were inserted.
	InsertMembers(ctx context.Context, entries []Entry) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Import parses r and adds its members. Phone numbers repeated within the
// file or already registered are skipped.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	entries, invalid, err := Parse(r)
	if err != nil {
		return nil, err
	}

	unique := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if _, dup := seen[e.PhoneNumber]; dup {
			continue
		}

		seen[e.PhoneNumber] = struct{}{}
		unique = append(unique, e)
	}

	imported := 0

	if len(unique) > 0 {
		imported, err = s.repo.InsertMembers(ctx, unique)
		if err != nil {
			return nil, fmt.Errorf("inserting members: %w", err)
		}
	}

	return &Result{
		Imported: imported,
		Skipped:  len(entries) - imported,
		Invalid:  invalid,
	}, nil
}
