package refdata

import (
	"fmt"
	"time"
)

// OpenEndDate is the open-ended termination sentinel: a record carrying
// it is valid indefinitely.
var OpenEndDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// noDataEndDate is the "no data" termination value found in CMS provider
// extracts. It is normalized to OpenEndDate at load time, never treated
// as a literal near-past date.
const noDataEndDate = 19000101

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseDateInt parses a date given as a YYYYMMDD integer, the format
// used by CMS provider extracts.
func ParseDateInt(n int) (time.Time, error) {
	if n < 10000101 || n > 99991231 {
		return time.Time{}, fmt.Errorf("date integer %d not in YYYYMMDD form", n)
	}
	year := n / 10000
	month := n / 100 % 100
	day := n % 100
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date integer %d not in YYYYMMDD form", n)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// DateInt converts a date to its YYYYMMDD integer form.
func DateInt(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// NormalizeEndDate maps the termination sentinels (zero value, 19000101)
// to OpenEndDate. Any other date passes through.
func NormalizeEndDate(t time.Time) time.Time {
	if t.IsZero() || DateInt(t) == noDataEndDate {
		return OpenEndDate
	}
	return t
}

// NormalizeEndDateInt is NormalizeEndDate for YYYYMMDD integer input,
// where 0 also means "no data".
func NormalizeEndDateInt(n int) (time.Time, error) {
	if n == 0 || n == noDataEndDate {
		return OpenEndDate, nil
	}
	return ParseDateInt(n)
}
