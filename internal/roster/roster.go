// Package roster loads the chama's member list from spreadsheet exports.
package roster

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
)

const DefaultPosition = "Member"

// Entry is one member as listed on the roster. PhoneNumber is canonical.
type Entry struct {
	FirstName   string
	LastName    string
	Position    string
	PhoneNumber string
}

// RowError explains why a roster row was not imported. Row is 1-based and
// counts the header.
type RowError struct {
	Row    int
	Reason string
}

type Result struct {
	Imported int
	Skipped  int
	Invalid  []RowError
}

var ErrEmpty = apperror.New(apperror.KindValidation, "roster file is empty")

func missingColumnsError(cols []string) error {
	return apperror.New(apperror.KindValidation,
		fmt.Sprintf("roster header is missing columns: %s", strings.Join(cols, ", ")))
}
