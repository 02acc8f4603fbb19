package guestlist

import (
	"fmt"
	"io"
	"strings"

	"wedding-planner/internal/models"
)

// ImportHeader is the column layout of the guest import template.
var ImportHeader = []string{
	"firstName", "lastName", "email", "phone", "address", "relationship", "side",
	"rsvpStatus", "plusOneAllowed", "plusOneName", "plusOneRsvpStatus",
	"dietaryRestrictions", "specialRequirements", "notes",
}

// RowIssue lists the problems found on one line (1-based, header is line 1)
type RowIssue struct {
	Line     int      `json:"line"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportResult is what an import produced
type ImportResult struct {
	Guests []models.Guest `json:"guests"`
	Issues []RowIssue     `json:"issues"`
	Total  int            `json:"total"`
}

// Rejected counts rows that produced no guest.
func (r ImportResult) Rejected() int {
	return r.Total - len(r.Guests)
}

// ParseCSV reads rows keyed by the names in the first line.
//
// Lines and values are split on plain newlines and commas. Quoted values are
// not unquoted, so a file written by ExportGuestsToCSV with commas inside a
// value will not read back correctly.
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return rowsWithHeader(splitLine(lines[0]), lines[1:]), nil
}

// ParseCSVWithHeader reads rows keyed by the given header, skipping the
// file's own first line.
func ParseCSVWithHeader(r io.Reader, header []string) ([]map[string]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return rowsWithHeader(header, lines[1:]), nil
}

// ImportCSV parses and validates a guest file.
func ImportCSV(r io.Reader) (ImportResult, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Guests: []models.Guest{}, Issues: []RowIssue{}, Total: len(rows)}
	for i, row := range rows {
		v := ValidateGuestData(row)
		if len(v.Errors) > 0 || len(v.Warnings) > 0 {
			res.Issues = append(res.Issues, RowIssue{Line: i + 2, Errors: v.Errors, Warnings: v.Warnings})
		}
		if v.Guest != nil {
			res.Guests = append(res.Guests, *v.Guest)
		}
	}
	return res, nil
}

func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func rowsWithHeader(header []string, lines []string) []map[string]string {
	rows := make([]map[string]string, 0, len(lines))
	for _, line := range lines {
		values := splitLine(line)
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
