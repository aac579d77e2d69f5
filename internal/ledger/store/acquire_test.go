package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

func TestAcquireError(t *testing.T) {
	expired := func(parent context.Context) context.Context {
		ctx, cancel := context.WithDeadline(parent, time.Now().Add(-time.Second))
		t.Cleanup(cancel)

		return ctx
	}

	canceled := func() context.Context {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		return ctx
	}

	tests := []struct {
		name          string
		ctx           func() context.Context
		acquireCtx    func(ctx context.Context) context.Context
		err           error
		wantExhausted bool
	}{
		{
			name:          "AcquireTimeoutExpired",
			ctx:           context.Background,
			acquireCtx:    expired,
			err:           context.DeadlineExceeded,
			wantExhausted: true,
		},
		{
			name:       "CallerDeadlinePassed",
			ctx:        func() context.Context { return expired(context.Background()) },
			acquireCtx: expired,
			err:        context.DeadlineExceeded,
		},
		{
			name:       "CallerCanceled",
			ctx:        canceled,
			acquireCtx: func(ctx context.Context) context.Context { return ctx },
			err:        context.Canceled,
		},
		{
			name:       "DriverError",
			ctx:        context.Background,
			acquireCtx: func(ctx context.Context) context.Context { return ctx },
			err:        errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.ctx()

			err := acquireError(ctx, tt.acquireCtx(ctx), tt.err)

			assert.Equal(t, tt.wantExhausted, errors.Is(err, ledger.ErrResourceExhausted))

			if !tt.wantExhausted {
				assert.ErrorIs(t, err, tt.err)
				assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))
			}
		})
	}
}
