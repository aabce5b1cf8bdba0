// Package fiscal maps calendar dates to the federal fiscal-year release
// identifiers used by several CMS coding systems. Two releases cover each
// fiscal year: the fiscal-year release takes effect October 1 and the
// mid-year release April 1.
package fiscal

import (
	"strconv"
	"strings"
	"time"

	"refdata"
)

const baseYear = 1983

// VersionForDate returns the release identifier covering date t, e.g.
// "421" for a date in mid-2025.
func VersionForDate(t time.Time) string {
	base := t.Year() - baseYear
	switch {
	case t.Month() >= time.October:
		return strconv.Itoa(base+1) + "0"
	case t.Month() > time.March:
		return strconv.Itoa(base) + "1"
	default:
		return strconv.Itoa(base-1) + "0"
	}
}

// ParseVersion splits a version identifier into its numeric prefix and
// half-year suffix. It returns *refdata.InvalidVersionError for
// non-numeric identifiers, unknown suffixes, or a prefix at or above the
// sanity bound of 100.
func ParseVersion(v string) (prefix int, midYear bool, err error) {
	if len(v) < 2 {
		return 0, false, &refdata.InvalidVersionError{Version: v}
	}
	suffix := v[len(v)-1]
	if suffix != '0' && suffix != '1' {
		return 0, false, &refdata.InvalidVersionError{Version: v}
	}
	prefix, convErr := strconv.Atoi(v[:len(v)-1])
	if convErr != nil || prefix < 1 || prefix >= 100 {
		return 0, false, &refdata.InvalidVersionError{Version: v}
	}
	return prefix, suffix == '1', nil
}

// Number returns the full numeric value of a validated version
// identifier. Versions compare chronologically by this value.
func Number(v string) (int, error) {
	if _, _, err := ParseVersion(v); err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

// EffectiveDate returns the first service date covered by version v:
// April 1 of the prefix year for mid-year releases, otherwise October 1
// of the prior calendar year.
//
// VersionForDate(EffectiveDate(v)) == v for every valid v.
func EffectiveDate(v string) (time.Time, error) {
	prefix, midYear, err := ParseVersion(v)
	if err != nil {
		return time.Time{}, err
	}
	year := prefix + baseYear
	if midYear {
		return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Date(year-1, time.October, 1, 0, 0, 0, 0, time.UTC), nil
}

// Increment walks the half-year release sequence forward one step:
// a mid-year version gains 9 (421 -> 430), a fiscal-year version gains 1
// (430 -> 431). Used when probing for the newest installed release by
// trial. Unrecognized identifiers are returned unchanged.
func Increment(v string) string {
	n, err := strconv.Atoi(v)
	if err != nil {
		return v
	}
	switch {
	case strings.HasSuffix(v, "1"):
		return strconv.Itoa(n + 9)
	case strings.HasSuffix(v, "0"):
		return strconv.Itoa(n + 1)
	default:
		return v
	}
}
