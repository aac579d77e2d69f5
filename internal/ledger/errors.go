package ledger

import "github.com/MrJamesThe3rd/chama/internal/apperror"

var (
	ErrMemberNotFound     = apperror.New(apperror.KindNotFound, "member not found")
	ErrAlreadyRegistered  = apperror.New(apperror.KindConflict, "member is already registered")
	ErrContributionExists = apperror.New(apperror.KindConflict, "monthly contribution already recorded for this month")
	ErrInsufficientFunds  = apperror.New(apperror.KindInsufficientFunds, "insufficient balance")
	ErrResourceExhausted  = apperror.New(apperror.KindResourceExhausted, "no database connection available")

	ErrInvalidAmount   = apperror.New(apperror.KindValidation, "amount must be greater than zero")
	ErrAmountPrecision = apperror.New(apperror.KindValidation, "amount must have at most 2 decimal places")
	ErrInvalidType     = apperror.New(apperror.KindValidation, "type must be deposit or withdrawal")
	ErrMissingMember   = apperror.New(apperror.KindValidation, "memberId is required")
	ErrMissingActor    = apperror.New(apperror.KindValidation, "treasurer is required")

	ErrMonthlyWithdrawal = apperror.New(apperror.KindValidation, "monthly contributions must be deposits")
)
