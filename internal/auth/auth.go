package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
)

type Treasurer struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	PhoneNumber  string
	Position     string
	PasswordHash string
	CreatedAt    time.Time
}

func (t Treasurer) FullName() string {
	return t.FirstName + " " + t.LastName
}

// Actor is the authenticated treasurer behind a request.
type Actor struct {
	ID       uuid.UUID
	Name     string
	Position string
}

var (
	ErrTreasurerNotFound  = apperror.New(apperror.KindNotFound, "treasurer not found")
	ErrPhoneTaken         = apperror.New(apperror.KindConflict, "Phone number already registered")
	ErrMissingFields      = apperror.New(apperror.KindValidation, "All fields are required")
	ErrMissingCredentials = apperror.New(apperror.KindValidation, "Phone number and password are required")
	ErrWrongPassword      = apperror.New(apperror.KindValidation, "Current password is incorrect")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated, "Invalid credentials")
	ErrMissingToken       = apperror.New(apperror.KindUnauthenticated, "Authentication required")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthenticated, "Invalid or expired token")
)

type actorKey struct{}

func ContextWithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored by the auth middleware, if any.
func ActorFrom(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(*Actor)
	return a, ok && a != nil
}
