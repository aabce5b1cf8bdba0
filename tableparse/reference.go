package tableparse

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"refdata"
)

// ColumnType declares how a positional CSV cell is coerced.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Real
)

// Column maps a named attribute to a zero-based CSV position and type.
type Column struct {
	Name     string
	Position int
	Type     ColumnType
}

// ColumnSpec is the declarative description of one reference extract:
// its positional columns plus which of them carry the entity key and the
// effective/termination dates. Key and EffectiveDate are required;
// EndDate may be empty for extracts without a termination column.
// Date columns hold YYYYMMDD integers.
type ColumnSpec struct {
	Key           string
	EffectiveDate string
	EndDate       string
	Columns       []Column
}

func (s ColumnSpec) column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (s ColumnSpec) width() int {
	w := 0
	for _, c := range s.Columns {
		if c.Position+1 > w {
			w = c.Position + 1
		}
	}
	return w
}

// ParseReferenceRows converts positional CSV rows into reference
// records. Rows shorter than the spec's column span are skipped; empty
// cells become nulls (absent attributes); malformed numeric cells are
// nulled and counted rather than failing the batch. One bad value must
// not drop attributes that did parse.
func ParseReferenceRows(rows [][]string, spec ColumnSpec) ([]refdata.ReferenceRecord, Report, error) {
	var report Report

	keyCol, ok := spec.column(spec.Key)
	if !ok {
		return nil, report, &refdata.FormatError{Msg: fmt.Sprintf("key column %q not in spec", spec.Key)}
	}
	effCol, ok := spec.column(spec.EffectiveDate)
	if !ok || effCol.Type != Integer {
		return nil, report, &refdata.FormatError{Msg: fmt.Sprintf("effective date column %q missing or not integer", spec.EffectiveDate)}
	}
	var endCol Column
	hasEnd := false
	if spec.EndDate != "" {
		if endCol, hasEnd = spec.column(spec.EndDate); !hasEnd || endCol.Type != Integer {
			return nil, report, &refdata.FormatError{Msg: fmt.Sprintf("end date column %q missing or not integer", spec.EndDate)}
		}
	}

	width := spec.width()
	var records []refdata.ReferenceRecord
	for _, row := range rows {
		if len(row) < width {
			report.SkippedRows++
			continue
		}

		attrs := make(map[string]any, len(spec.Columns))
		for _, col := range spec.Columns {
			val := row[col.Position]
			if val == "" {
				continue
			}
			switch col.Type {
			case Integer:
				n, err := strconv.ParseInt(val, 10, 64)
				if err != nil {
					report.DegradedValues++
					continue
				}
				attrs[col.Name] = n
			case Real:
				f, err := strconv.ParseFloat(val, 64)
				if err != nil {
					report.DegradedValues++
					continue
				}
				attrs[col.Name] = f
			default:
				attrs[col.Name] = val
			}
		}

		key, _ := attrs[keyCol.Name].(string)
		if key == "" {
			report.SkippedRows++
			continue
		}

		effInt, ok := attrs[effCol.Name].(int64)
		if !ok {
			report.SkippedRows++
			continue
		}
		effective, err := refdata.ParseDateInt(int(effInt))
		if err != nil {
			report.UnparsedDates = append(report.UnparsedDates, strconv.FormatInt(effInt, 10))
			report.SkippedRows++
			continue
		}

		end := refdata.OpenEndDate
		if hasEnd {
			endInt, _ := attrs[endCol.Name].(int64)
			end, err = refdata.NormalizeEndDateInt(int(endInt))
			if err != nil {
				report.UnparsedDates = append(report.UnparsedDates, strconv.FormatInt(endInt, 10))
				end = refdata.OpenEndDate
			}
		}

		records = append(records, refdata.ReferenceRecord{
			EntityKey:     key,
			EffectiveDate: effective,
			EndDate:       end,
			Attributes:    attrs,
		})
	}

	return records, report, nil
}

// ReadCSVRows reads every row of a CSV stream, skipping a UTF-8 BOM and
// optionally the header row. Quoting is lazy and field counts may vary,
// matching the tolerances real extracts need.
func ReadCSVRows(r io.Reader, skipHeader bool) ([][]string, error) {
	buf := bufio.NewReaderSize(r, 64*1024)
	bom, err := buf.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		buf.Discard(3)
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	if skipHeader {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read csv header: %w", err)
		}
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
