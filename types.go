// Package refdata holds the shared data model for versioned,
// effective-dated reference tables: code crosswalk entries, provider and
// locality reference records, and per-code conversion results.
package refdata

import (
	"strings"
	"time"
)

// CodeSystem identifies which coding namespace a crosswalk entry belongs
// to. Diagnosis and procedure codes are disjoint namespaces even when the
// code text is identical.
type CodeSystem int

const (
	Diagnosis CodeSystem = iota
	Procedure
)

func (s CodeSystem) String() string {
	switch s {
	case Diagnosis:
		return "diagnosis"
	case Procedure:
		return "procedure"
	default:
		return "unknown"
	}
}

// CrosswalkEntry records that PreviousCode becomes CurrentCode as of
// EffectiveDate within one code system. Entries are immutable once loaded
// and replaced wholesale on re-ingestion.
type CrosswalkEntry struct {
	PreviousCode  string
	CurrentCode   string
	EffectiveDate time.Time
	System        CodeSystem
}

// ReferenceRecord is a versioned attribute row (provider payment data,
// ZIP locality data) resolved by point-in-time lookup. EndDate is
// OpenEndDate when the record has no explicit termination. Attribute
// values are string, int64 or float64; absent keys mean null.
type ReferenceRecord struct {
	EntityKey     string
	EffectiveDate time.Time
	EndDate       time.Time
	Attributes    map[string]any
}

// ConversionResult is the per-code output of a crosswalk resolution.
// Empty Candidates means no mapping was found; that is a normal result,
// not an error. Candidates are in crosswalk traversal order.
type ConversionResult struct {
	OriginalCode string
	Candidates   []string
}

// SelectPrimaryCandidate is the named tie-break policy for picking a
// single translated code out of a conversion result: first candidate
// wins. Returns false when there are no candidates.
func SelectPrimaryCandidate(r ConversionResult) (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	return r.Candidates[0], true
}

// NormalizeCode strips the formatting periods from a code so that codes
// compare punctuation-insensitively ("H02.101" and "H02101" are the same
// code).
func NormalizeCode(code string) string {
	return strings.ReplaceAll(code, ".", "")
}
