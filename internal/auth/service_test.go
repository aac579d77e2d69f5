package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/phone"
)

var (
	secret = []byte("test-secret")
	issued = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

func newService(repo auth.Repository, at time.Time) *auth.Service {
	return auth.NewService(repo, secret, 24*time.Hour,
		auth.WithBcryptCost(bcrypt.MinCost),
		auth.WithClock(func() time.Time { return at }),
	)
}

func treasurer(t *testing.T, password string) *auth.Treasurer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &auth.Treasurer{
		ID:           uuid.New(),
		FirstName:    "Catherine",
		LastName:     "Temea",
		PhoneNumber:  "0705185868",
		Position:     "Treasurer",
		PasswordHash: string(hash),
	}
}

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		params    auth.RegisterParams
		setupMock func(m *auth.MockRepository)
		wantErr   error
	}

	valid := auth.RegisterParams{
		FirstName:   "Catherine",
		LastName:    "Temea",
		PhoneNumber: "705185868",
		Password:    "hunter2",
		Position:    "Treasurer",
	}

	tests := []testCase{
		{
			name:   "Success",
			params: valid,
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().CreateTreasurer(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *auth.Treasurer) error {
						assert.Equal(t, "0705185868", tr.PhoneNumber)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(tr.PasswordHash), []byte("hunter2")))

						tr.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:      "MissingField",
			params:    auth.RegisterParams{FirstName: "Catherine", PhoneNumber: "0705185868", Password: "x", Position: "Treasurer"},
			setupMock: func(m *auth.MockRepository) {},
			wantErr:   auth.ErrMissingFields,
		},
		{
			name:      "BadPhone",
			params:    auth.RegisterParams{FirstName: "A", LastName: "B", PhoneNumber: "123", Password: "x", Position: "Treasurer"},
			setupMock: func(m *auth.MockRepository) {},
			wantErr:   phone.ErrInvalid,
		},
		{
			name:   "DuplicatePhone",
			params: valid,
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().CreateTreasurer(gomock.Any(), gomock.Any()).Return(auth.ErrPhoneTaken)
			},
			wantErr: auth.ErrPhoneTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := auth.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := newService(repo, issued).Register(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_LoginAndAuthenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tr := treasurer(t, "hunter2")
	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().GetTreasurerByPhone(gomock.Any(), "0705185868").Return(tr, nil)
	repo.EXPECT().GetTreasurer(gomock.Any(), tr.ID).Return(tr, nil)

	svc := newService(repo, issued)

	token, got, err := svc.Login(context.Background(), "+254705185868", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.NotEmpty(t, token)

	actor, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, actor.ID)
	assert.Equal(t, "Treasurer", actor.Position)
	assert.Equal(t, "Catherine Temea", actor.Name)
}

func TestService_Login_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		phone     string
		password  string
		setupMock func(t *testing.T, m *auth.MockRepository)
		wantErr   error
	}{
		{
			name:      "MissingPassword",
			phone:     "0705185868",
			setupMock: func(*testing.T, *auth.MockRepository) {},
			wantErr:   auth.ErrMissingCredentials,
		},
		{
			name:     "UnknownPhone",
			phone:    "0700000000",
			password: "hunter2",
			setupMock: func(_ *testing.T, m *auth.MockRepository) {
				m.EXPECT().GetTreasurerByPhone(gomock.Any(), "0700000000").Return(nil, auth.ErrTreasurerNotFound)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "WrongPassword",
			phone:    "0705185868",
			password: "letmein",
			setupMock: func(t *testing.T, m *auth.MockRepository) {
				m.EXPECT().GetTreasurerByPhone(gomock.Any(), "0705185868").Return(treasurer(t, "hunter2"), nil)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := auth.NewMockRepository(ctrl)
			tt.setupMock(t, repo)

			_, _, err := newService(repo, issued).Login(context.Background(), tt.phone, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Authenticate_Rejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tr := treasurer(t, "hunter2")
	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().GetTreasurerByPhone(gomock.Any(), gomock.Any()).Return(tr, nil).AnyTimes()

	token, _, err := newService(repo, issued).Login(context.Background(), "0705185868", "hunter2")
	require.NoError(t, err)

	t.Run("Missing", func(t *testing.T) {
		_, err := newService(repo, issued).Authenticate(context.Background(), "")
		assert.ErrorIs(t, err, auth.ErrMissingToken)
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := newService(repo, issued).Authenticate(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		_, err := newService(repo, issued.Add(25*time.Hour)).Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("OtherSecret", func(t *testing.T) {
		other := auth.NewService(repo, []byte("other"), time.Hour, auth.WithClock(func() time.Time { return issued }))
		_, err := other.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("TreasurerRemoved", func(t *testing.T) {
		repo.EXPECT().GetTreasurer(gomock.Any(), tr.ID).Return(nil, auth.ErrTreasurerNotFound)

		_, err := newService(repo, issued.Add(time.Hour)).Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("StoreDown", func(t *testing.T) {
		repo.EXPECT().GetTreasurer(gomock.Any(), tr.ID).Return(nil, errors.New("connection refused"))

		_, err := newService(repo, issued).Authenticate(context.Background(), token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	tests := []struct {
		name      string
		params    auth.ProfileParams
		checkHash func(t *testing.T, hash string)
		wantErr   error
	}{
		{
			name:   "NameAndPhoneOnly",
			params: auth.ProfileParams{FirstName: "Cate", LastName: "Temea", PhoneNumber: "0711111111"},
			checkHash: func(t *testing.T, hash string) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
			},
		},
		{
			name: "NewPassword",
			params: auth.ProfileParams{
				FirstName: "Cate", LastName: "Temea", PhoneNumber: "0711111111",
				CurrentPassword: "hunter2", NewPassword: "correct horse",
			},
			checkHash: func(t *testing.T, hash string) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")))
			},
		},
		{
			name: "WrongCurrentPassword",
			params: auth.ProfileParams{
				FirstName: "Cate", LastName: "Temea", PhoneNumber: "0711111111",
				CurrentPassword: "nope", NewPassword: "correct horse",
			},
			wantErr: auth.ErrWrongPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tr := treasurer(t, "hunter2")
			repo := auth.NewMockRepository(ctrl)
			repo.EXPECT().GetTreasurer(gomock.Any(), tr.ID).Return(tr, nil)

			if tt.wantErr == nil {
				repo.EXPECT().UpdateTreasurer(gomock.Any(), tr).Return(nil)
			}

			got, err := newService(repo, issued).UpdateProfile(context.Background(), tr.ID, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Cate", got.FirstName)
			assert.Equal(t, "0711111111", got.PhoneNumber)
			tt.checkHash(t, got.PasswordHash)
		})
	}
}

func TestActorContext(t *testing.T) {
	_, ok := auth.ActorFrom(context.Background())
	assert.False(t, ok)

	actor := &auth.Actor{ID: uuid.New()}
	got, ok := auth.ActorFrom(auth.ContextWithActor(context.Background(), actor))
	require.True(t, ok)
	assert.Equal(t, actor, got)
}
