package tableparse

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"refdata"
)

const sampleCrosswalkTable = `ICD-10-CM Conversion Table

Current code assignment  Effective date  Previous Code(s) Assignment
E1169      2015      250.00
H02.107    2017      H02.101-106
C84.7A     10/01/22   C84.70 and C84.79
Z99.99     2018      None
Q99.99     2019      New categories added
M99.99     someday   M98.01
`

func TestParseCrosswalkTable(t *testing.T) {
	entries, report, err := ParseCrosswalkTable(sampleCrosswalkTable, refdata.Diagnosis)
	if err != nil {
		t.Fatalf("ParseCrosswalkTable: %v", err)
	}

	// E1169 single mapping, fiscal-year date.
	first := entries[0]
	if first.PreviousCode != "25000" || first.CurrentCode != "E1169" {
		t.Errorf("first entry = %+v", first)
	}
	if !first.EffectiveDate.Equal(time.Date(2015, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first effective = %s, want 2015-10-01", first.EffectiveDate.Format("2006-01-02"))
	}

	// H02.101-106 expands to six previous codes for H02.107.
	var h02Prev []string
	for _, e := range entries {
		if e.CurrentCode == "H02107" {
			h02Prev = append(h02Prev, e.PreviousCode)
		}
	}
	want := []string{"H02101", "H02102", "H02103", "H02104", "H02105", "H02106"}
	if !reflect.DeepEqual(h02Prev, want) {
		t.Errorf("H02.107 previous codes = %v, want %v", h02Prev, want)
	}

	// "X and Y" splits into two codes; MM/DD/YY date parses.
	var c84Prev []string
	for _, e := range entries {
		if e.CurrentCode == "C847A" {
			c84Prev = append(c84Prev, e.PreviousCode)
			if !e.EffectiveDate.Equal(time.Date(2022, time.October, 1, 0, 0, 0, 0, time.UTC)) {
				t.Errorf("C84.7A effective = %s, want 2022-10-01", e.EffectiveDate.Format("2006-01-02"))
			}
		}
	}
	if !reflect.DeepEqual(c84Prev, []string{"C8470", "C8479"}) {
		t.Errorf("C84.7A previous codes = %v", c84Prev)
	}

	// Administrative rows (None, categories) produce no entries.
	for _, e := range entries {
		if e.CurrentCode == "Z9999" || e.CurrentCode == "Q9999" {
			t.Errorf("administrative row parsed as entry: %+v", e)
		}
	}

	// The unparseable date row is skipped and reported, not silently kept.
	if len(report.UnparsedDates) != 1 || report.UnparsedDates[0] != "someday" {
		t.Errorf("UnparsedDates = %v, want [someday]", report.UnparsedDates)
	}
	if report.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", report.SkippedRows)
	}
	if report.Empty() {
		t.Error("report with a skipped row must not be empty")
	}
}

func TestParseCrosswalkTableMissingHeader(t *testing.T) {
	_, _, err := ParseCrosswalkTable("just some text\nwith no header\n", refdata.Diagnosis)
	var ferr *refdata.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %v, want FormatError", err)
	}
}

func TestExpandCodeRange(t *testing.T) {
	codes, full := ExpandCodeRange("H02.101", "H02.106")
	want := []string{"H02.101", "H02.102", "H02.103", "H02.104", "H02.105", "H02.106"}
	if !full || !reflect.DeepEqual(codes, want) {
		t.Errorf("ExpandCodeRange(H02.101, H02.106) = %v full=%v", codes, full)
	}

	// Non-numeric suffixes degrade to the two endpoints.
	codes, full = ExpandCodeRange("A00", "B11")
	if full || !reflect.DeepEqual(codes, []string{"A00", "B11"}) {
		t.Errorf("ExpandCodeRange(A00, B11) = %v full=%v", codes, full)
	}

	// Zero padding is preserved.
	codes, full = ExpandCodeRange("X08", "X11")
	if !full || !reflect.DeepEqual(codes, []string{"X08", "X09", "X10", "X11"}) {
		t.Errorf("ExpandCodeRange(X08, X11) = %v full=%v", codes, full)
	}
}

const sampleProcedureTable = `Current code(s) assignment	Code title	Effective year	Previous code(s) assignment	Predecessor code title	Change type	Comment	Effective month/day [MM.DD]
0016070	Title A	2019	0016071,0016072	Old title	Revision	-	04.01
0B110F4	Title B	2020	0B110Z4	Old title	Revision	-	-
NoPCS	Deleted	2020	0XY123	Old title	Deletion	-	-
0D12345	Unchanged	2021	0D12345	Same	None	-	-
short	row
`

func TestParseProcedureTable(t *testing.T) {
	entries, report, err := ParseProcedureTable(sampleProcedureTable)
	if err != nil {
		t.Fatalf("ParseProcedureTable: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}

	// Two previous codes expand to two entries with the MM.DD date.
	wantDate := time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)
	for _, e := range entries[:2] {
		if e.CurrentCode != "0016070" || e.System != refdata.Procedure {
			t.Errorf("entry = %+v", e)
		}
		if !e.EffectiveDate.Equal(wantDate) {
			t.Errorf("effective = %s, want 2019-04-01", e.EffectiveDate.Format("2006-01-02"))
		}
	}

	// Missing MM.DD defaults to January 1.
	third := entries[2]
	if third.CurrentCode != "0B110F4" ||
		!third.EffectiveDate.Equal(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("third entry = %+v", third)
	}

	// Placeholder and self-mapping rows are dropped without being
	// counted as malformed; the short row is counted.
	if report.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", report.SkippedRows)
	}
}
