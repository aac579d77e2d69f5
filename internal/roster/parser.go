package roster

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"

	enc "github.com/MrJamesThe3rd/chama/internal/encoding"
	"github.com/MrJamesThe3rd/chama/internal/phone"
)

type field int

const (
	fieldFirstName field = iota
	fieldLastName
	fieldPosition
	fieldPhone
)

// headerAliases maps normalized header cells to the field they hold.
var headerAliases = map[string]field{
	"firstname":   fieldFirstName,
	"first":       fieldFirstName,
	"givenname":   fieldFirstName,
	"lastname":    fieldLastName,
	"last":        fieldLastName,
	"surname":     fieldLastName,
	"position":    fieldPosition,
	"role":        fieldPosition,
	"title":       fieldPosition,
	"phonenumber": fieldPhone,
	"phone":       fieldPhone,
	"mobile":      fieldPhone,
	"telephone":   fieldPhone,
}

var required = []struct {
	field field
	name  string
}{
	{fieldFirstName, "firstName"},
	{fieldLastName, "lastName"},
	{fieldPhone, "phoneNumber"},
}

var delimiters = []rune{',', ';', '\t', '|'}

// Parse reads a roster CSV. The header row may name the columns in any order
// and the file may use any common delimiter or encoding. Rows that cannot be
// used are returned as RowErrors rather than failing the whole file.
func Parse(r io.Reader) ([]Entry, []RowError, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	head, err := br.Peek(1024)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, fmt.Errorf("peek: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil, ErrEmpty
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		entries []Entry
		invalid []RowError
	)

	for i, row := range rows[1:] {
		rowNum := i + 2

		if blank(row) {
			continue
		}

		e := Entry{
			FirstName: cell(row, cols[fieldFirstName]),
			LastName:  cell(row, cols[fieldLastName]),
			Position:  cell(row, cols[fieldPosition]),
		}

		if e.FirstName == "" || e.LastName == "" {
			invalid = append(invalid, RowError{Row: rowNum, Reason: "missing name"})
			continue
		}

		number, err := phone.Normalize(cell(row, cols[fieldPhone]))
		if err != nil {
			invalid = append(invalid, RowError{Row: rowNum, Reason: "invalid phone number"})
			continue
		}

		e.PhoneNumber = number

		if e.Position == "" {
			e.Position = DefaultPosition
		}

		entries = append(entries, e)
	}

	return entries, invalid, nil
}

// detectDelimiter picks the candidate occurring most often on the first line.
func detectDelimiter(sample []byte) rune {
	line, _, _ := bytes.Cut(sample, []byte("\n"))

	best, bestCount := ',', 0

	for _, d := range delimiters {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}

func mapHeader(header []string) (map[field]int, error) {
	cols := make(map[field]int)

	for i, h := range header {
		f, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}

		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}

	var missing []string

	for _, req := range required {
		if _, ok := cols[req.field]; !ok {
			missing = append(missing, req.name)
		}
	}

	if len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}

	if _, ok := cols[fieldPosition]; !ok {
		cols[fieldPosition] = -1
	}

	return cols, nil
}

func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}

		return -1
	}, h)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
