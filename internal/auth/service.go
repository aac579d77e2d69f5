package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/chama/internal/phone"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateTreasurer(ctx context.Context, t *Treasurer) error
	GetTreasurer(ctx context.Context, id uuid.UUID) (*Treasurer, error)
	GetTreasurerByPhone(ctx context.Context, phoneNumber string) (*Treasurer, error)
	UpdateTreasurer(ctx context.Context, t *Treasurer) error
}

type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(repo Repository, secret []byte, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type RegisterParams struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Password    string
	Position    string
}

func (s *Service) Register(ctx context.Context, p RegisterParams) (*Treasurer, error) {
	if blank(p.FirstName, p.LastName, p.PhoneNumber, p.Password, p.Position) {
		return nil, ErrMissingFields
	}

	number, err := phone.Normalize(p.PhoneNumber)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	t := &Treasurer{
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		PhoneNumber:  number,
		Position:     strings.TrimSpace(p.Position),
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateTreasurer(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Login checks the credentials and returns a signed bearer token. Unknown
// phone numbers and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, phoneNumber, password string) (string, *Treasurer, error) {
	if blank(phoneNumber, password) {
		return "", nil, ErrMissingCredentials
	}

	number, err := phone.Normalize(phoneNumber)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	t, err := s.repo.GetTreasurerByPhone(ctx, number)
	if err != nil {
		if errors.Is(err, ErrTreasurerNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(t)
	if err != nil {
		return "", nil, err
	}

	return token, t, nil
}

// Authenticate resolves a bearer token to an actor. The treasurer must still
// exist.
func (s *Service) Authenticate(ctx context.Context, token string) (*Actor, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	id, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetTreasurer(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTreasurerNotFound) {
			return nil, ErrInvalidToken
		}

		return nil, err
	}

	return &Actor{ID: t.ID, Name: t.FullName(), Position: t.Position}, nil
}

type ProfileParams struct {
	FirstName       string
	LastName        string
	PhoneNumber     string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile changes name and phone. A new password is only accepted
// together with the correct current one.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileParams) (*Treasurer, error) {
	if blank(p.FirstName, p.LastName, p.PhoneNumber) {
		return nil, ErrMissingFields
	}

	number, err := phone.Normalize(p.PhoneNumber)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetTreasurer(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(p.CurrentPassword)); err != nil {
			return nil, ErrWrongPassword
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(p.NewPassword), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}

		t.PasswordHash = string(hash)
	}

	t.FirstName = strings.TrimSpace(p.FirstName)
	t.LastName = strings.TrimSpace(p.LastName)
	t.PhoneNumber = number

	if err := s.repo.UpdateTreasurer(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}

	return false
}
