package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/export"
	chamahttp "github.com/MrJamesThe3rd/chama/internal/http"
	authhttp "github.com/MrJamesThe3rd/chama/internal/http/auth"
	exporthttp "github.com/MrJamesThe3rd/chama/internal/http/export"
	ledgerhttp "github.com/MrJamesThe3rd/chama/internal/http/ledger"
	memberhttp "github.com/MrJamesThe3rd/chama/internal/http/member"
	notificationhttp "github.com/MrJamesThe3rd/chama/internal/http/notification"
	reporthttp "github.com/MrJamesThe3rd/chama/internal/http/report"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/ledger/memstore"
	"github.com/MrJamesThe3rd/chama/internal/member"
	"github.com/MrJamesThe3rd/chama/internal/notification"
	"github.com/MrJamesThe3rd/chama/internal/report"
	"github.com/MrJamesThe3rd/chama/internal/roster"
	"github.com/MrJamesThe3rd/chama/internal/stats"
)

var now = time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC)

const password = "hunter2"

type fixture struct {
	handler       http.Handler
	store         *memstore.Store
	token         string
	treasurer     *auth.Treasurer
	members       *member.MockRepository
	notifications *notification.MockRepository
	reports       *report.MockRepository
	roster        *roster.MockRepository
}

func newFixture(t *testing.T, health func(context.Context) error) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	clock := func() time.Time { return now }

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	tr := &auth.Treasurer{
		ID:           uuid.New(),
		FirstName:    "Catherine",
		LastName:     "Temea",
		PhoneNumber:  "0705185868",
		Position:     "Treasurer",
		PasswordHash: string(hash),
	}

	authRepo := auth.NewMockRepository(ctrl)
	authRepo.EXPECT().GetTreasurer(gomock.Any(), tr.ID).Return(tr, nil).AnyTimes()
	authRepo.EXPECT().GetTreasurerByPhone(gomock.Any(), tr.PhoneNumber).Return(tr, nil).AnyTimes()

	authSvc := auth.NewService(authRepo, []byte("test-secret"), time.Hour,
		auth.WithClock(clock), auth.WithBcryptCost(bcrypt.MinCost))

	token, _, err := authSvc.Login(context.Background(), tr.PhoneNumber, password)
	require.NoError(t, err)

	store := memstore.New()
	policy := ledger.DefaultPolicy()
	statsSvc := stats.NewService(store).WithClock(clock)

	f := &fixture{
		store:         store,
		token:         token,
		treasurer:     tr,
		members:       member.NewMockRepository(ctrl),
		notifications: notification.NewMockRepository(ctrl),
		reports:       report.NewMockRepository(ctrl),
		roster:        roster.NewMockRepository(ctrl),
	}

	reportSvc := report.NewService(f.reports, statsSvc, policy).WithClock(clock)

	f.handler = chamahttp.New(
		chamahttp.Options{
			CORSOrigins:  []string{"*"},
			Authenticate: authhttp.Middleware(authSvc),
			Health:       health,
		},
		authhttp.NewHandler(authSvc),
		memberhttp.NewHandler(
			member.NewService(f.members, statsSvc, policy, "0705185868").WithClock(clock),
			roster.NewService(f.roster),
		),
		ledgerhttp.NewHandler(ledger.NewService(store, policy, ledger.WithClock(clock))),
		notificationhttp.NewHandler(notification.NewService(f.notifications)),
		reporthttp.NewHandler(reportSvc),
		exporthttp.NewHandler(export.NewService(reportSvc)),
	)

	return f
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *fixture) do(t *testing.T, method, path string, body any, authed bool) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)

			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	return f.serve(t, req)
}

func (f *fixture) serve(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return rec.Code, env
}

func (f *fixture) addMember(balance int64) uuid.UUID {
	return f.store.AddMember(ledger.Member{
		FirstName:   "Janet",
		LastName:    "Mueni",
		PhoneNumber: "0715200230",
		Position:    "Member",
		Balance:     decimal.NewFromInt(balance),
	})
}

func TestHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		status, env := newFixture(t, func(context.Context) error { return nil }).do(t, http.MethodGet, "/health", nil, false)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "success", env.Status)
		assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	})

	t.Run("DatabaseDown", func(t *testing.T) {
		status, env := newFixture(t, func(context.Context) error { return errors.New("dial tcp: refused") }).
			do(t, http.MethodGet, "/health", nil, false)

		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "service unavailable", env.Message)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)

	type testCase struct {
		name       string
		body       any
		wantStatus int
		wantMsg    string
	}

	tests := []testCase{
		{
			name:       "Success",
			body:       map[string]string{"phoneNumber": "705185868", "password": password},
			wantStatus: http.StatusOK,
		},
		{
			name:       "WrongPassword",
			body:       map[string]string{"phoneNumber": "0705185868", "password": "nope"},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid credentials",
		},
		{
			name:       "MissingFields",
			body:       map[string]string{"phoneNumber": "0705185868"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Phone number and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := f.do(t, http.MethodPost, "/api/v1/treasurer/login", tt.body, false)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, env.Message)

			if tt.wantStatus == http.StatusOK {
				var data struct {
					Token     string `json:"token"`
					Treasurer struct {
						ID uuid.UUID `json:"id"`
					} `json:"treasurer"`
				}
				require.NoError(t, json.Unmarshal(env.Data, &data))
				assert.NotEmpty(t, data.Token)
				assert.Equal(t, f.treasurer.ID, data.Treasurer.ID)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t, nil)

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/ledger/transactions"},
		{http.MethodGet, "/api/v1/members"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodPut, "/api/v1/treasurer/profile"},
	}

	for _, p := range paths {
		t.Run(p.method+p.path, func(t *testing.T) {
			status, env := f.do(t, p.method, p.path, "{}", false)

			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Authentication required", env.Message)
		})
	}

	t.Run("ForgedToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		status, env := f.serve(t, req)

		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid or expired token", env.Message)
	})
}

func TestLedger_Transactions(t *testing.T) {
	type testCase struct {
		name       string
		balance    string
		body       func(memberID uuid.UUID) any
		wantStatus int
		wantMsg    string
		wantBal    string
	}

	tests := []testCase{
		{
			name: "Deposit",
			body: func(id uuid.UUID) any {
				return map[string]any{"memberId": id, "type": "deposit", "amount": 500, "purpose": "savings"}
			},
			wantStatus: http.StatusOK,
			wantMsg:    "Transaction completed successfully",
			wantBal:    "600",
		},
		{
			name:    "AmountAsString",
			balance: "40.50",
			body: func(id uuid.UUID) any {
				return map[string]any{"memberId": id, "type": "withdrawal", "amount": "40.50"}
			},
			wantStatus: http.StatusOK,
			wantMsg:    "Transaction completed successfully",
			wantBal:    "0",
		},
		{
			name: "InsufficientFunds",
			body: func(id uuid.UUID) any {
				return map[string]any{"memberId": id, "type": "withdrawal", "amount": 101}
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "insufficient balance",
			wantBal:    "100",
		},
		{
			name: "UnknownMember",
			body: func(uuid.UUID) any {
				return map[string]any{"memberId": uuid.New(), "type": "deposit", "amount": 10}
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "member not found",
			wantBal:    "100",
		},
		{
			name: "InvalidType",
			body: func(id uuid.UUID) any {
				return map[string]any{"memberId": id, "type": "loan", "amount": 10}
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "type must be deposit or withdrawal",
			wantBal:    "100",
		},
		{
			name: "SubCentAmount",
			body: func(id uuid.UUID) any {
				return map[string]any{"memberId": id, "type": "deposit", "amount": "0.001"}
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "amount must have at most 2 decimal places",
			wantBal:    "100",
		},
		{
			name: "MonthlyWithdrawal",
			body: func(id uuid.UUID) any {
				return map[string]any{"memberId": id, "type": "withdrawal", "amount": 10, "purpose": "monthly"}
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "monthly contributions must be deposits",
			wantBal:    "100",
		},
		{
			name:       "MalformedBody",
			body:       func(uuid.UUID) any { return `{"amount":` },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid request body",
			wantBal:    "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.balance == "" {
				tt.balance = "100"
			}

			f := newFixture(t, nil)
			id := f.store.AddMember(ledger.Member{
				FirstName:   "Peter",
				LastName:    "Mutua",
				PhoneNumber: "0768534718",
				Position:    "Member",
				Balance:     decimal.RequireFromString(tt.balance),
			})

			status, env := f.do(t, http.MethodPost, "/api/v1/ledger/transactions", tt.body(id), true)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, env.Message)

			if m, ok := f.store.Member(id); ok {
				assert.True(t, decimal.RequireFromString(tt.wantBal).Equal(m.Balance), "balance %s", m.Balance)
			}
		})
	}
}

func TestLedger_RecordsActor(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addMember(0)

	status, env := f.do(t, http.MethodPost, "/api/v1/ledger/contributions",
		map[string]any{"memberId": id, "amount": 50}, true)
	require.Equal(t, http.StatusOK, status, env.Message)

	var data struct {
		TransactionID uuid.UUID `json:"transactionId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	txs := f.store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, data.TransactionID, txs[0].ID)
	assert.Equal(t, f.treasurer.ID, txs[0].TreasurerID)
}

func TestLedger_RepeatsConflict(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    func(uuid.UUID) any
		wantMsg string
	}{
		{
			name:    "Registration",
			path:    "/api/v1/ledger/registrations",
			body:    func(id uuid.UUID) any { return map[string]any{"memberId": id} },
			wantMsg: "member is already registered",
		},
		{
			name:    "MonthlyContribution",
			path:    "/api/v1/ledger/contributions",
			body:    func(id uuid.UUID) any { return map[string]any{"memberId": id, "amount": 50} },
			wantMsg: "monthly contribution already recorded for this month",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			id := f.addMember(0)

			status, _ := f.do(t, http.MethodPost, tt.path, tt.body(id), true)
			require.Equal(t, http.StatusOK, status)

			status, env := f.do(t, http.MethodPost, tt.path, tt.body(id), true)
			assert.Equal(t, http.StatusConflict, status)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Len(t, f.store.Transactions(), 1)
		})
	}
}

func TestMembers_GetByPhoneIsPublic(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addMember(250)
	m, _ := f.store.Member(id)

	f.members.EXPECT().GetMemberByPhone(gomock.Any(), "0715200230").Return(&m, nil)
	f.members.EXPECT().RecentTransactions(gomock.Any(), id, 5).Return(nil, nil)
	f.members.EXPECT().RecentContributions(gomock.Any(), id, 12).Return([]ledger.MonthlyContribution{
		{MemberID: id, Month: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(50), Status: ledger.ContributionPaid},
	}, nil)

	status, env := f.do(t, http.MethodGet, "/api/v1/members/715200230", nil, false)
	require.Equal(t, http.StatusOK, status, env.Message)

	var data struct {
		Balance              decimal.Decimal `json:"balance"`
		DefaultedAmount      decimal.Decimal `json:"defaultedAmount"`
		TreasuryBalance      decimal.Decimal `json:"treasuryBalance"`
		TreasurerPhone       string          `json:"treasurerPhone"`
		MonthlyContributions []struct {
			Month string `json:"month"`
		} `json:"monthlyContributions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	assert.True(t, decimal.NewFromInt(250).Equal(data.Balance))
	assert.True(t, decimal.NewFromInt(50).Equal(data.DefaultedAmount))
	assert.True(t, decimal.NewFromInt(250).Equal(data.TreasuryBalance))
	assert.Equal(t, "0705185868", data.TreasurerPhone)
	require.Len(t, data.MonthlyContributions, 1)
	assert.Equal(t, "May", data.MonthlyContributions[0].Month)
}

func TestMembers_List(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("RejectsUnknownSort", func(t *testing.T) {
		status, env := f.do(t, http.MethodGet, "/api/v1/members?sort=password", nil, true)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "unsupported sort field", env.Message)
	})

	t.Run("Paginates", func(t *testing.T) {
		f.members.EXPECT().ListMembers(gomock.Any(), gomock.Any(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).
			DoAndReturn(func(_ context.Context, filter member.ListFilter, _ time.Time) ([]member.Summary, int, error) {
				assert.Equal(t, member.FilterDefaulters, filter.Filter)
				assert.Equal(t, 2, filter.Page)
				assert.Equal(t, 5, filter.Limit)

				return []member.Summary{{Member: ledger.Member{FirstName: "Janet"}}}, 6, nil
			})

		status, env := f.do(t, http.MethodGet, "/api/v1/members?filter=defaulters&page=2&limit=5", nil, true)
		require.Equal(t, http.StatusOK, status, env.Message)

		var data struct {
			Members    []json.RawMessage `json:"members"`
			Pagination struct {
				Total      int `json:"total"`
				Page       int `json:"page"`
				TotalPages int `json:"totalPages"`
			} `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))

		assert.Len(t, data.Members, 1)
		assert.Equal(t, 6, data.Pagination.Total)
		assert.Equal(t, 2, data.Pagination.Page)
		assert.Equal(t, 2, data.Pagination.TotalPages)
	})
}

func TestMembers_Import(t *testing.T) {
	f := newFixture(t, nil)

	f.roster.EXPECT().InsertMembers(gomock.Any(), gomock.Len(2)).Return(1, nil)

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "members.csv")
	require.NoError(t, err)

	_, err = part.Write([]byte("firstName;lastName;position;phoneNumber\nMeshack;Mwanzia;Member;768848904\nLucy;Nthambi;Member;718498998\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/members/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token)

	status, env := f.serve(t, req)
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.JSONEq(t, `{"imported":1,"skipped":1,"invalid":[]}`, string(env.Data))
}

func TestReports_Generate(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("InvalidType", func(t *testing.T) {
		status, env := f.do(t, http.MethodPost, "/api/v1/reports", map[string]string{"type": "weekly", "startDate": "2024-06-01"}, true)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "type must be one of: monthly, annual", env.Message)
	})

	t.Run("BadDate", func(t *testing.T) {
		status, env := f.do(t, http.MethodPost, "/api/v1/reports", map[string]string{"type": "monthly", "startDate": "June"}, true)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "startDate must be a date formatted 2006-01-02", env.Message)
	})

	t.Run("Monthly", func(t *testing.T) {
		f.reports.EXPECT().MonthlyRows(gomock.Any(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).Return([]report.MonthlyRow{
			{FirstName: "Janet", Amount: decimal.NewFromInt(50), Status: ledger.ContributionPaid, Month: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)
		f.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any(), f.treasurer.ID).Return(nil)

		status, env := f.do(t, http.MethodPost, "/api/v1/reports", map[string]string{"type": "monthly", "startDate": "2024-06-18"}, true)
		require.Equal(t, http.StatusOK, status, env.Message)

		var data struct {
			Title       string `json:"title"`
			GeneratedBy string `json:"generatedBy"`
			Data        []struct {
				Month string `json:"month"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))

		assert.Equal(t, "Monthly Report", data.Title)
		assert.Equal(t, "Catherine Temea", data.GeneratedBy)
		require.Len(t, data.Data, 1)
		assert.Equal(t, "2024-06", data.Data[0].Month)
	})
}

func TestReports_Export(t *testing.T) {
	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("CSV", func(t *testing.T) {
		f := newFixture(t, nil)

		f.reports.EXPECT().MonthlyRows(gomock.Any(), june).Return([]report.MonthlyRow{
			{FirstName: "Janet", LastName: "Mueni", PhoneNumber: "0715200230", Amount: decimal.NewFromInt(50), Status: ledger.ContributionPaid, Month: june},
		}, nil)
		f.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any(), f.treasurer.ID).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/export/csv",
			strings.NewReader(`{"type":"monthly","startDate":"2024-06-18"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+f.token)

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="monthly_report_2024-06.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "Janet,Mueni,0715200230,2024-06,50.00,paid")
	})

	t.Run("InvalidRequestIsJSON", func(t *testing.T) {
		f := newFixture(t, nil)

		status, env := f.do(t, http.MethodPost, "/api/v1/reports/export", map[string]string{"type": "weekly", "startDate": "2024-06-01"}, true)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "type must be one of: monthly, annual", env.Message)
	})
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, nil)
	f.addMember(300)

	f.reports.EXPECT().ContributionTrends(gomock.Any(), time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)).Return(nil, nil)
	f.reports.EXPECT().RecentTransactions(gomock.Any(), 10).Return(nil, nil)

	status, env := f.do(t, http.MethodGet, "/api/v1/dashboard", nil, true)
	require.Equal(t, http.StatusOK, status, env.Message)

	var data struct {
		Stats struct {
			TotalBalance    decimal.Decimal `json:"totalBalance"`
			PendingPayments decimal.Decimal `json:"pendingPayments"`
			TotalMembers    int             `json:"totalMembers"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	assert.True(t, decimal.NewFromInt(300).Equal(data.Stats.TotalBalance))
	assert.True(t, decimal.NewFromInt(50).Equal(data.Stats.PendingPayments))
	assert.Equal(t, 1, data.Stats.TotalMembers)
}

func TestNotifications(t *testing.T) {
	f := newFixture(t, nil)

	f.notifications.EXPECT().ListForTreasurer(gomock.Any(), f.treasurer.ID, notification.FeedSize).Return([]notification.Entry{
		{Notification: ledger.Notification{ID: uuid.New(), Message: "Deposit of KES 500.00 to your account", Type: ledger.NotificationSuccess}, MemberFirstName: "Janet"},
	}, nil)

	status, env := f.do(t, http.MethodGet, "/api/v1/notifications", nil, true)
	require.Equal(t, http.StatusOK, status, env.Message)

	var data []struct {
		Message   string `json:"message"`
		FirstName string `json:"firstName"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "Janet", data[0].FirstName)
}
