package convert

import (
	"context"
	"time"

	"refdata"
	"refdata/fiscal"
)

// ClaimCodes carries the distinct code slots of one claim. Diagnosis
// slots resolve under the diagnosis system, procedures under the
// procedure system; the two namespaces are disjoint even for identical
// code text.
type ClaimCodes struct {
	PrincipalDx  string
	AdmitDx      string
	SecondaryDxs []string
	Procedures   []string
}

// CodeKey identifies one code within one coding namespace.
type CodeKey struct {
	Code   string
	System refdata.CodeSystem
}

// ResolveClaim resolves every distinct code on a claim at most once. The
// result map holds exactly the distinct (code, system) pairs present on
// the claim; codes with no mapping get a result with empty candidates,
// never a missing key.
func (r *Resolver) ResolveClaim(ctx context.Context, claim ClaimCodes, billedVersion, targetVersion string) (map[CodeKey]refdata.ConversionResult, error) {
	// Validate both versions up front so a bad identifier fails the
	// whole claim rather than the first code.
	if _, err := fiscal.Number(billedVersion); err != nil {
		return nil, err
	}
	if _, err := fiscal.Number(targetVersion); err != nil {
		return nil, err
	}

	var keys []CodeKey
	seen := make(map[CodeKey]bool)
	add := func(code string, system refdata.CodeSystem) {
		if code == "" {
			return
		}
		k := CodeKey{Code: code, System: system}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	add(claim.PrincipalDx, refdata.Diagnosis)
	add(claim.AdmitDx, refdata.Diagnosis)
	for _, dx := range claim.SecondaryDxs {
		add(dx, refdata.Diagnosis)
	}
	for _, px := range claim.Procedures {
		add(px, refdata.Procedure)
	}

	mappings := make(map[CodeKey]refdata.ConversionResult, len(keys))
	for _, k := range keys {
		res, err := r.Resolve(ctx, k.Code, billedVersion, targetVersion, k.System)
		if err != nil {
			return nil, err
		}
		mappings[k] = res
	}
	return mappings, nil
}

// ResolveClaimAuto derives the billed version from the claim's through
// date, assuming the claim was billed under the release current at
// discharge.
func (r *Resolver) ResolveClaimAuto(ctx context.Context, claim ClaimCodes, thruDate time.Time, targetVersion string) (map[CodeKey]refdata.ConversionResult, error) {
	return r.ResolveClaim(ctx, claim, fiscal.VersionForDate(thruDate), targetVersion)
}
