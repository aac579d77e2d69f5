package ledger

import "github.com/shopspring/decimal"

// Policy holds the deployment-wide fees. They are configuration, never
// request input.
type Policy struct {
	RegistrationFee decimal.Decimal
	MonthlyFee      decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		RegistrationFee: decimal.NewFromInt(100),
		MonthlyFee:      decimal.NewFromInt(50),
	}
}

// Defaulted is the amount still owed for the current month by members who
// have not paid it.
func (p Policy) Defaulted(totalMembers, paidThisMonth int) decimal.Decimal {
	unpaid := totalMembers - paidThisMonth
	if unpaid <= 0 {
		return decimal.Zero
	}

	return p.MonthlyFee.Mul(decimal.NewFromInt(int64(unpaid)))
}
