package tableparse

import (
	"strconv"
	"strings"
	"time"

	"refdata"
)

// Column positions of the tab-delimited procedure conversion table:
// current code, code title, effective year, previous codes (CSV),
// predecessor title, change type, comment, effective month/day [MM.DD].
const (
	pcsColCurrent       = 0
	pcsColEffectiveYear = 2
	pcsColPrevious      = 3
	pcsColMonthDay      = 7
	pcsColCount         = 8
)

// pcsPlaceholder marks table rows with no real procedure code on one
// side of the mapping.
const pcsPlaceholder = "nopcs"

// ParseProcedureTable parses the fixed-format, tab-delimited procedure
// conversion table by direct column indexing. The first line is the
// header and is skipped. Rows are dropped when either side of the
// mapping is the placeholder code or when the current code equals the
// first previous code (a self-mapping, not a real change).
func ParseProcedureTable(text string) ([]refdata.CrosswalkEntry, Report, error) {
	var report Report

	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil, report, &refdata.FormatError{Msg: "procedure table is empty"}
	}

	var entries []refdata.CrosswalkEntry
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < pcsColCount {
			report.SkippedRows++
			continue
		}

		currentCode := strings.TrimSpace(parts[pcsColCurrent])
		effectiveYear := strings.TrimSpace(parts[pcsColEffectiveYear])
		monthDay := strings.TrimSpace(parts[pcsColMonthDay])

		var prevCodes []string
		for _, c := range strings.Split(parts[pcsColPrevious], ",") {
			if c = strings.TrimSpace(c); c != "" {
				prevCodes = append(prevCodes, c)
			}
		}
		if len(prevCodes) == 0 {
			report.SkippedRows++
			continue
		}

		if strings.EqualFold(currentCode, pcsPlaceholder) ||
			strings.EqualFold(prevCodes[0], pcsPlaceholder) ||
			currentCode == prevCodes[0] {
			continue
		}

		year, err := strconv.Atoi(effectiveYear)
		if err != nil || len(effectiveYear) != 4 {
			report.UnparsedDates = append(report.UnparsedDates, effectiveYear)
			report.SkippedRows++
			continue
		}

		effective := procedureEffectiveDate(year, monthDay, &report)
		for _, prev := range prevCodes {
			entries = append(entries, refdata.CrosswalkEntry{
				PreviousCode:  refdata.NormalizeCode(prev),
				CurrentCode:   refdata.NormalizeCode(currentCode),
				EffectiveDate: effective,
				System:        refdata.Procedure,
			})
		}
	}

	return entries, report, nil
}

// procedureEffectiveDate combines the effective year with the optional
// MM.DD suffix, defaulting to January 1 when the suffix is absent or
// malformed.
func procedureEffectiveDate(year int, monthDay string, report *Report) time.Time {
	month, day := 1, 1
	if strings.Contains(monthDay, ".") {
		md := strings.SplitN(monthDay, ".", 2)
		m, errM := strconv.Atoi(md[0])
		d, errD := strconv.Atoi(md[1])
		if errM == nil && errD == nil && m >= 1 && m <= 12 && d >= 1 && d <= 31 {
			month, day = m, d
		} else {
			report.UnparsedDates = append(report.UnparsedDates, monthDay)
		}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
