// Package export turns generated reports into files a treasurer can share:
// the rows as CSV and a plain-text summary, bundled in a zip archive.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/report"
)

const (
	csvName     = "report.csv"
	summaryName = "summary.txt"
)

var (
	monthlyHeader = []string{"firstName", "lastName", "phoneNumber", "month", "amount", "status", "type", "purpose"}
	annualHeader  = []string{"firstName", "lastName", "phoneNumber", "totalDeposits", "totalWithdrawals", "contributionMonths"}
)

// Generator produces the report an export is built from.
type Generator interface {
	Generate(ctx context.Context, req report.Request, by auth.Actor) (*report.Report, error)
}

// Service handles the export of generated reports.
type Service struct {
	reports Generator
}

func NewService(reports Generator) *Service {
	return &Service{reports: reports}
}

// Export generates and persists the requested report. Callers then write it
// with WriteArchive or WriteCSV.
func (s *Service) Export(ctx context.Context, req report.Request, by auth.Actor) (*report.Report, error) {
	r, err := s.reports.Generate(ctx, req, by)
	if err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	return r, nil
}

// WriteArchive writes a zip holding the report rows and its summary.
func (s *Service) WriteArchive(w io.Writer, r *report.Report) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create(csvName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvName, err)
	}

	if err := s.WriteCSV(f, r); err != nil {
		return err
	}

	f, err = zw.Create(summaryName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", summaryName, err)
	}

	if _, err := io.WriteString(f, s.Summary(r)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

// WriteCSV writes one line per report row under a header naming the columns.
func (s *Service) WriteCSV(w io.Writer, r *report.Report) error {
	cw := csv.NewWriter(w)

	records := [][]string{monthlyHeader}
	if r.Type == report.TypeAnnual {
		records = [][]string{annualHeader}
		for _, a := range r.Annual {
			records = append(records, []string{
				a.FirstName,
				a.LastName,
				a.PhoneNumber,
				a.TotalDeposits.StringFixed(2),
				a.TotalWithdrawals.StringFixed(2),
				strconv.Itoa(a.ContributionMonths),
			})
		}
	} else {
		for _, m := range r.Monthly {
			records = append(records, []string{
				m.FirstName,
				m.LastName,
				m.PhoneNumber,
				m.Month.Format("2006-01"),
				m.Amount.StringFixed(2),
				string(m.Status),
				string(m.Type),
				m.Purpose,
			})
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// Summary renders the report as a short text suitable for pasting into a
// message to members.
func (s *Service) Summary(r *report.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s to %s\n", r.Title, r.PeriodStart.Format("2006-01-02"), r.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Generated by %s\n\n", r.GeneratedBy)

	if r.Type == report.TypeAnnual {
		var deposits, withdrawals decimal.Decimal

		for _, a := range r.Annual {
			deposits = deposits.Add(a.TotalDeposits)
			withdrawals = withdrawals.Add(a.TotalWithdrawals)

			fmt.Fprintf(&sb, "* %s %s | +%s | -%s | %d months\n",
				a.FirstName, a.LastName, kes(a.TotalDeposits), kes(a.TotalWithdrawals), a.ContributionMonths)
		}

		fmt.Fprintf(&sb, "\nDeposits: %s\nWithdrawals: %s\n", kes(deposits), kes(withdrawals))

		return sb.String()
	}

	var (
		collected decimal.Decimal
		paid      int
	)

	for _, m := range r.Monthly {
		status := "Not paid"
		if m.Status == ledger.ContributionPaid {
			status = "Paid"
			paid++
			collected = collected.Add(m.Amount)
		}

		fmt.Fprintf(&sb, "* %s %s | %s | %s\n", m.FirstName, m.LastName, kes(m.Amount), status)
	}

	fmt.Fprintf(&sb, "\nPaid: %d of %d members\nCollected: %s\n", paid, len(r.Monthly), kes(collected))

	return sb.String()
}

// Filename names an exported report, e.g. monthly_report_2024-03.zip.
func Filename(r *report.Report, ext string) string {
	period := r.PeriodStart.Format("2006-01")
	if r.Type == report.TypeAnnual {
		period = r.PeriodStart.Format("2006")
	}

	return fmt.Sprintf("%s_report_%s%s", r.Type, period, ext)
}

func kes(d decimal.Decimal) string {
	return "KES " + d.StringFixed(2)
}
