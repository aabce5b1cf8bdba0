package convert

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"refdata"
	"refdata/temporal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// diabetesIndex loads the single crosswalk entry used by most tests:
// 250.00 became E11.69 on 2015-10-01.
func diabetesIndex() *temporal.Index {
	ix := temporal.NewIndex()
	ix.ReplaceCrosswalk(refdata.Diagnosis, []refdata.CrosswalkEntry{
		{PreviousCode: "250.00", CurrentCode: "E1169", EffectiveDate: date(2015, time.October, 1)},
	})
	return ix
}

func TestConvertForward(t *testing.T) {
	r := NewResolver(diabetesIndex())

	res, err := r.ConvertForward(context.Background(), "250.00", date(2016, time.January, 1), refdata.Diagnosis)
	if err != nil {
		t.Fatalf("ConvertForward: %v", err)
	}
	if res.OriginalCode != "250.00" {
		t.Errorf("OriginalCode = %q", res.OriginalCode)
	}
	if !reflect.DeepEqual(res.Candidates, []string{"E1169"}) {
		t.Errorf("Candidates = %v, want [E1169]", res.Candidates)
	}

	// Before the change took effect there is nothing to map to.
	res, err = r.ConvertForward(context.Background(), "250.00", date(2015, time.January, 1), refdata.Diagnosis)
	if err != nil {
		t.Fatalf("ConvertForward: %v", err)
	}
	if len(res.Candidates) != 0 {
		t.Errorf("Candidates = %v, want empty", res.Candidates)
	}
}

func TestConvertBackward(t *testing.T) {
	r := NewResolver(diabetesIndex())

	res, err := r.ConvertBackward(context.Background(), "E1169", date(2015, time.January, 1), refdata.Diagnosis)
	if err != nil {
		t.Fatalf("ConvertBackward: %v", err)
	}
	if !reflect.DeepEqual(res.Candidates, []string{"25000"}) {
		t.Errorf("Candidates = %v, want [25000]", res.Candidates)
	}

	// After the change date there is no future change left to unwind.
	res, err = r.ConvertBackward(context.Background(), "E1169", date(2016, time.January, 1), refdata.Diagnosis)
	if err != nil {
		t.Fatalf("ConvertBackward: %v", err)
	}
	if len(res.Candidates) != 0 {
		t.Errorf("Candidates = %v, want empty", res.Candidates)
	}
}

func TestConvertForwardMultipleSuccessors(t *testing.T) {
	ix := temporal.NewIndex()
	ix.ReplaceCrosswalk(refdata.Diagnosis, []refdata.CrosswalkEntry{
		{PreviousCode: "A00", CurrentCode: "B11", EffectiveDate: date(2020, time.October, 1)},
		{PreviousCode: "A00", CurrentCode: "C22", EffectiveDate: date(2017, time.October, 1)},
	})
	r := NewResolver(ix)

	res, err := r.ConvertForward(context.Background(), "A00", date(2021, time.January, 1), refdata.Diagnosis)
	if err != nil {
		t.Fatalf("ConvertForward: %v", err)
	}
	// Ascending effective-date order regardless of load order.
	if !reflect.DeepEqual(res.Candidates, []string{"C22", "B11"}) {
		t.Errorf("Candidates = %v, want [C22 B11]", res.Candidates)
	}

	primary, ok := refdata.SelectPrimaryCandidate(res)
	if !ok || primary != "C22" {
		t.Errorf("SelectPrimaryCandidate = %q, %v", primary, ok)
	}
}

func TestResolveDirections(t *testing.T) {
	r := NewResolver(diabetesIndex())
	ctx := context.Background()

	// 320 is effective 2014-10-01, before the crosswalk entry;
	// billing under 430 (FY2026) and targeting 320 maps backward.
	res, err := r.Resolve(ctx, "E1169", "430", "320", refdata.Diagnosis)
	if err != nil {
		t.Fatalf("Resolve backward: %v", err)
	}
	if !reflect.DeepEqual(res.Candidates, []string{"25000"}) {
		t.Errorf("backward Candidates = %v", res.Candidates)
	}

	// Billing under 320 and targeting 430 maps forward.
	res, err = r.Resolve(ctx, "250.00", "320", "430", refdata.Diagnosis)
	if err != nil {
		t.Fatalf("Resolve forward: %v", err)
	}
	if !reflect.DeepEqual(res.Candidates, []string{"E1169"}) {
		t.Errorf("forward Candidates = %v", res.Candidates)
	}

	// Equal versions pass the code through untouched.
	res, err = r.Resolve(ctx, "250.00", "430", "430", refdata.Diagnosis)
	if err != nil {
		t.Fatalf("Resolve equal: %v", err)
	}
	if !reflect.DeepEqual(res.Candidates, []string{"250.00"}) {
		t.Errorf("equal Candidates = %v", res.Candidates)
	}
}

func TestResolveInvalidVersion(t *testing.T) {
	r := NewResolver(diabetesIndex())
	for _, pair := range [][2]string{{"1000", "430"}, {"430", "1000"}, {"43x", "430"}} {
		_, err := r.Resolve(context.Background(), "250.00", pair[0], pair[1], refdata.Diagnosis)
		var verr *refdata.InvalidVersionError
		if !errors.As(err, &verr) {
			t.Errorf("Resolve(%v) err = %v, want InvalidVersionError", pair, err)
		}
	}
}

func TestResolveUnmappedCode(t *testing.T) {
	r := NewResolver(diabetesIndex())
	res, err := r.Resolve(context.Background(), "Z99.9", "320", "430", refdata.Diagnosis)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.OriginalCode != "Z99.9" || len(res.Candidates) != 0 {
		t.Errorf("unmapped result = %+v, want empty candidates", res)
	}
	if _, ok := refdata.SelectPrimaryCandidate(res); ok {
		t.Error("SelectPrimaryCandidate should report no candidate")
	}
}

func TestResolveClaimDedup(t *testing.T) {
	ix := temporal.NewIndex()
	ix.ReplaceCrosswalk(refdata.Diagnosis, []refdata.CrosswalkEntry{
		{PreviousCode: "250.00", CurrentCode: "E1169", EffectiveDate: date(2015, time.October, 1)},
	})
	ix.ReplaceCrosswalk(refdata.Procedure, []refdata.CrosswalkEntry{
		{PreviousCode: "250.00", CurrentCode: "0XY1234", EffectiveDate: date(2015, time.October, 1)},
	})
	r := NewResolver(ix)

	claim := ClaimCodes{
		PrincipalDx:  "250.00",
		SecondaryDxs: []string{"250.00", "401.9"},
		Procedures:   []string{"250.00"},
	}
	mappings, err := r.ResolveClaim(context.Background(), claim, "320", "430")
	if err != nil {
		t.Fatalf("ResolveClaim: %v", err)
	}

	// Three distinct keys: the duplicated diagnosis collapses to one
	// entry, the textually identical procedure stays independent.
	if len(mappings) != 3 {
		t.Fatalf("got %d mappings, want 3: %v", len(mappings), mappings)
	}

	dx := mappings[CodeKey{Code: "250.00", System: refdata.Diagnosis}]
	if !reflect.DeepEqual(dx.Candidates, []string{"E1169"}) {
		t.Errorf("diagnosis candidates = %v", dx.Candidates)
	}
	px := mappings[CodeKey{Code: "250.00", System: refdata.Procedure}]
	if !reflect.DeepEqual(px.Candidates, []string{"0XY1234"}) {
		t.Errorf("procedure candidates = %v", px.Candidates)
	}

	// The unmapped secondary is present with empty candidates.
	other, ok := mappings[CodeKey{Code: "401.9", System: refdata.Diagnosis}]
	if !ok {
		t.Fatal("unmapped code missing from result map")
	}
	if other.OriginalCode != "401.9" || len(other.Candidates) != 0 {
		t.Errorf("unmapped entry = %+v", other)
	}
}

func TestResolveClaimAuto(t *testing.T) {
	r := NewResolver(diabetesIndex())

	// Discharged 2025-07-30 -> billed version 421; targeting 320 maps
	// backward to the legacy code.
	mappings, err := r.ResolveClaimAuto(context.Background(), ClaimCodes{PrincipalDx: "E1169"}, date(2025, time.July, 30), "320")
	if err != nil {
		t.Fatalf("ResolveClaimAuto: %v", err)
	}
	res := mappings[CodeKey{Code: "E1169", System: refdata.Diagnosis}]
	if !reflect.DeepEqual(res.Candidates, []string{"25000"}) {
		t.Errorf("candidates = %v, want [25000]", res.Candidates)
	}
}
