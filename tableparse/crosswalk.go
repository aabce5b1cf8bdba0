// Package tableparse converts raw CMS reference-table text into
// normalized record batches. It knows nothing about lookup semantics.
//
// Government-published tables are messy: parsers tolerate malformed
// individual rows and values, skipping or nulling them, and report every
// degradation through a Report so callers can audit what was dropped.
// Only a missing header or a structurally broken column layout aborts a
// parse, via *refdata.FormatError.
package tableparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"refdata"
)

// Header markers for the diagnosis conversion table.
const (
	currentCodeMarker  = "Current code assignment"
	previousCodeMarker = "Previous Code(s) Assignment"
)

var (
	columnSplit  = regexp.MustCompile(`\s{2,}|\t`)
	codeListSep  = regexp.MustCompile(`[;,]`)
	mmddyyLayout = "01/02/06"
)

// Report aggregates row-level tolerance outcomes from a parse. Counts
// and samples are surfaced to the caller rather than swallowed.
type Report struct {
	// SkippedRows counts input rows dropped entirely (too few columns,
	// missing key, unusable effective date).
	SkippedRows int
	// DegradedValues counts individual cells nulled because they failed
	// numeric conversion.
	DegradedValues int
	// UnparsedDates holds the raw effective-date tokens that matched no
	// known format.
	UnparsedDates []string
	// DegradedRanges holds code-range tokens that could not be
	// enumerated and were kept as their two endpoints only.
	DegradedRanges []string
}

// Empty reports whether the parse completed with no degradation at all.
func (r Report) Empty() bool {
	return r.SkippedRows == 0 && r.DegradedValues == 0 &&
		len(r.UnparsedDates) == 0 && len(r.DegradedRanges) == 0
}

// ParseCrosswalkTable parses the free-form conversion table published
// for diagnosis codes: a header row located by substring match, then one
// row per current code with an effective date and a previous-code list
// that may contain ranges. One CrosswalkEntry is produced per expanded
// individual previous code, with periods stripped from both codes.
func ParseCrosswalkTable(text string, system refdata.CodeSystem) ([]refdata.CrosswalkEntry, Report, error) {
	var report Report

	lines := strings.Split(text, "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, currentCodeMarker) && strings.Contains(line, previousCodeMarker) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, report, &refdata.FormatError{Msg: "crosswalk header row not found"}
	}

	var entries []refdata.CrosswalkEntry
	for _, line := range lines[headerIdx+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := splitColumns(line, 3)
		if len(parts) < 3 {
			report.SkippedRows++
			continue
		}
		currentCode := strings.TrimSpace(parts[0])
		dateStr := strings.TrimSpace(parts[1])
		prevStr := strings.TrimSpace(parts[2])

		// Administrative rows, not real crosswalks.
		lower := strings.ToLower(prevStr)
		if strings.Contains(lower, "none") || strings.Contains(lower, "categories") {
			continue
		}

		effective, ok := parseCrosswalkDate(dateStr)
		if !ok {
			report.UnparsedDates = append(report.UnparsedDates, dateStr)
			report.SkippedRows++
			continue
		}

		prevCodes := splitPreviousCodes(prevStr, &report)
		for _, prev := range prevCodes {
			entries = append(entries, refdata.CrosswalkEntry{
				PreviousCode:  refdata.NormalizeCode(prev),
				CurrentCode:   refdata.NormalizeCode(currentCode),
				EffectiveDate: effective,
				System:        system,
			})
		}
	}

	return entries, report, nil
}

// splitColumns splits a row into at most n logical columns on runs of
// two-or-more spaces or a tab, mirroring the table's visual layout.
func splitColumns(line string, n int) []string {
	return columnSplit.Split(line, n)
}

// parseCrosswalkDate accepts a bare 4-digit fiscal year (start of that
// federal fiscal year, October 1) or an MM/DD/YY date.
func parseCrosswalkDate(s string) (time.Time, bool) {
	if year, err := strconv.Atoi(s); err == nil {
		if year < 1000 || year > 9999 {
			return time.Time{}, false
		}
		return time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC), true
	}
	if t, err := time.Parse(mmddyyLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// splitPreviousCodes cleans the previous-code column and expands ranges
// into individual codes.
func splitPreviousCodes(s string, report *Report) []string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, " and ", ", ")

	var codes []string
	for _, token := range codeListSep.Split(s, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if !strings.Contains(token, "-") {
			codes = append(codes, token)
			continue
		}

		rangeParts := strings.Split(token, "-")
		if len(rangeParts) != 2 {
			// Not a simple range, keep verbatim.
			codes = append(codes, token)
			continue
		}
		start := strings.TrimSpace(rangeParts[0])
		end := strings.TrimSpace(rangeParts[1])
		// A short end token is a suffix: right-align it against the
		// start code (H02.101-106 means H02.101 through H02.106).
		if len(end) < len(start) {
			end = start[:len(start)-len(end)] + end
		}
		expanded, full := ExpandCodeRange(start, end)
		if !full {
			report.DegradedRanges = append(report.DegradedRanges, token)
		}
		codes = append(codes, expanded...)
	}
	return codes
}

// ExpandCodeRange enumerates every code between start and end inclusive
// when the two share a literal prefix and differ only in an all-digit
// suffix, preserving zero padding. Otherwise it degrades to exactly
// [start, end] and reports full=false: interior codes of exotic ranges
// are dropped rather than guessed at.
func ExpandCodeRange(start, end string) (codes []string, full bool) {
	minLen := len(start)
	if len(end) < minLen {
		minLen = len(end)
	}
	prefixLen := 0
	for prefixLen < minLen && start[prefixLen] == end[prefixLen] {
		prefixLen++
	}
	prefix := start[:prefixLen]
	startSuffix := start[prefixLen:]
	endSuffix := end[prefixLen:]

	if !allDigits(startSuffix) || !allDigits(endSuffix) {
		return []string{start, end}, false
	}

	startN, _ := strconv.Atoi(startSuffix)
	endN, _ := strconv.Atoi(endSuffix)
	width := len(startSuffix)
	for i := startN; i <= endN; i++ {
		codes = append(codes, prefix+zeroPad(i, width))
	}
	return codes, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func zeroPad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
