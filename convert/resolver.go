// Package convert translates codes between coding-system releases by
// walking effective-dated crosswalk entries.
//
// Directionality: a claim is billed under the release current at time of
// service. Mapping backward asks what an older release called a code
// (re-pricing under a legacy ruleset); mapping forward asks what a newer
// release now calls a code billed under an older one.
package convert

import (
	"context"
	"time"

	"refdata"
	"refdata/fiscal"
)

// Crosswalks is the lookup contract the resolver needs from a temporal
// index. Both the in-memory index and the postgres store satisfy it.
type Crosswalks interface {
	// EarliestCurrentAfter returns the next change strictly after asOf
	// in which code appears as the current code.
	EarliestCurrentAfter(ctx context.Context, system refdata.CodeSystem, code string, asOf time.Time) (refdata.CrosswalkEntry, bool, error)
	// AllPreviousAtOrBefore returns every change at or before asOf in
	// which code appears as the previous code, ascending by effective
	// date.
	AllPreviousAtOrBefore(ctx context.Context, system refdata.CodeSystem, code string, asOf time.Time) ([]refdata.CrosswalkEntry, error)
}

// Resolver translates single codes and whole claims.
type Resolver struct {
	src Crosswalks
}

func NewResolver(src Crosswalks) *Resolver {
	return &Resolver{src: src}
}

// Resolve translates code from billedVersion to targetVersion. Equal
// versions need no conversion and return the code unchanged. A result
// with no candidates means no mapping exists; that is a normal outcome,
// not an error. Invalid version identifiers surface as
// *refdata.InvalidVersionError.
func (r *Resolver) Resolve(ctx context.Context, code, billedVersion, targetVersion string, system refdata.CodeSystem) (refdata.ConversionResult, error) {
	billed, err := fiscal.Number(billedVersion)
	if err != nil {
		return refdata.ConversionResult{}, err
	}
	target, err := fiscal.Number(targetVersion)
	if err != nil {
		return refdata.ConversionResult{}, err
	}

	if target == billed {
		return refdata.ConversionResult{OriginalCode: code, Candidates: []string{code}}, nil
	}

	targetEffective, err := fiscal.EffectiveDate(targetVersion)
	if err != nil {
		return refdata.ConversionResult{}, err
	}
	if target < billed {
		return r.ConvertBackward(ctx, code, targetEffective, system)
	}
	return r.ConvertForward(ctx, code, targetEffective, system)
}

// ConvertBackward finds the code an older release used for code: the
// previous code of the earliest change strictly after asOf in which code
// was the current code. Single hop only; conversions spanning several
// releases in which the predecessor itself was renamed are not chained.
func (r *Resolver) ConvertBackward(ctx context.Context, code string, asOf time.Time, system refdata.CodeSystem) (refdata.ConversionResult, error) {
	res := refdata.ConversionResult{OriginalCode: code}
	entry, ok, err := r.src.EarliestCurrentAfter(ctx, system, code, asOf)
	if err != nil {
		return res, err
	}
	if ok {
		res.Candidates = []string{entry.PreviousCode}
	}
	return res, nil
}

// ConvertForward finds every code a newer release uses for code: the
// current codes of all changes at or before asOf in which code was the
// previous code, in ascending effective-date order. A code superseded
// more than once yields multiple candidates; SelectPrimaryCandidate
// picks the conventional winner.
func (r *Resolver) ConvertForward(ctx context.Context, code string, asOf time.Time, system refdata.CodeSystem) (refdata.ConversionResult, error) {
	res := refdata.ConversionResult{OriginalCode: code}
	entries, err := r.src.AllPreviousAtOrBefore(ctx, system, code, asOf)
	if err != nil {
		return res, err
	}
	for _, e := range entries {
		res.Candidates = append(res.Candidates, e.CurrentCode)
	}
	return res, nil
}
