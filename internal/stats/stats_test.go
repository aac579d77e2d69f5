package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/stats"
)

func TestService_Snapshot(t *testing.T) {
	now := time.Date(2024, 7, 19, 15, 0, 0, 0, time.UTC)
	month := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		setupMock func(m *stats.MockRepository)
		want      *stats.Snapshot
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "EmptyStore",
			setupMock: func(m *stats.MockRepository) {
				m.EXPECT().Snapshot(gomock.Any(), month).Return(&stats.Snapshot{TotalBalance: decimal.Zero}, nil)
			},
			want: &stats.Snapshot{TotalBalance: decimal.Zero},
		},
		{
			name: "Populated",
			setupMock: func(m *stats.MockRepository) {
				m.EXPECT().Snapshot(gomock.Any(), month).Return(&stats.Snapshot{
					TotalMembers:         40,
					RegisteredMembers:    31,
					PendingRegistrations: 9,
					TotalBalance:         decimal.NewFromInt(12500),
					PaidThisMonth:        22,
				}, nil)
			},
			want: &stats.Snapshot{
				TotalMembers:         40,
				RegisteredMembers:    31,
				PendingRegistrations: 9,
				TotalBalance:         decimal.NewFromInt(12500),
				PaidThisMonth:        22,
			},
		},
		{
			name: "StoreError",
			setupMock: func(m *stats.MockRepository) {
				m.EXPECT().Snapshot(gomock.Any(), month).Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := stats.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := stats.NewService(repo).WithClock(func() time.Time { return now })

			got, err := svc.Snapshot(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaulted(t *testing.T) {
	snap := &stats.Snapshot{TotalMembers: 12, PaidThisMonth: 5}

	assert.True(t, stats.Defaulted(snap, ledger.DefaultPolicy()).Equal(decimal.NewFromInt(350)))
}
