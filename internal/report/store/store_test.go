package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/chama/internal/database/dbtest"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/chama/internal/ledger/store"
	"github.com/MrJamesThe3rd/chama/internal/report"
	"github.com/MrJamesThe3rd/chama/internal/report/store"
)

func TestStore_MonthlyRows(t *testing.T) {
	db := dbtest.Open(t)
	treasurer := dbtest.Treasurer(t, db)
	paid := dbtest.Member(t, db, "Wekesa")
	unpaid := dbtest.Member(t, db, "Njeri")

	svc := ledger.NewService(ledgerStore.New(db, 5*time.Second), ledger.DefaultPolicy())

	_, err := svc.RecordContribution(context.Background(), ledger.ContributionParams{
		MemberID: paid,
		Amount:   decimal.NewFromInt(50),
		ActorID:  treasurer,
	})
	require.NoError(t, err)

	month := ledger.MonthOf(time.Now())

	rows, err := store.New(db).MonthlyRows(context.Background(), month)
	require.NoError(t, err)

	byPhone := make(map[string]report.MonthlyRow, len(rows))
	for _, r := range rows {
		byPhone[r.PhoneNumber] = r
	}

	paidRow := rowFor(t, db, byPhone, paid)
	unpaidRow := rowFor(t, db, byPhone, unpaid)

	assert.Equal(t, ledger.ContributionPaid, paidRow.Status)
	assert.True(t, decimal.NewFromInt(50).Equal(paidRow.Amount))
	assert.Equal(t, ledger.TypeDeposit, paidRow.Type)
	assert.Equal(t, ledger.PurposeMonthly, paidRow.Purpose)

	assert.Equal(t, ledger.ContributionPending, unpaidRow.Status)
	assert.True(t, unpaidRow.Amount.IsZero())
	assert.True(t, month.Equal(unpaidRow.Month))
	assert.Empty(t, unpaidRow.Purpose)
}

func rowFor(t *testing.T, db *sql.DB, byPhone map[string]report.MonthlyRow, memberID uuid.UUID) report.MonthlyRow {
	t.Helper()

	var phone string
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT phone_number FROM members WHERE id = $1`, memberID).Scan(&phone))

	row, ok := byPhone[phone]
	require.True(t, ok, "no report row for %s", phone)

	return row
}
