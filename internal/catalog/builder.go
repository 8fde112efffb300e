package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"htscompass/internal/model"
)

// RawRow is one line of the source catalog before flattening. Rows form a
// hierarchy expressed through the indent column; most rows carry no code
// and exist only to contribute description or duty context to their
// descendants.
type RawRow struct {
	HTSNumber   string
	Indent      string
	Description string
	Unit        string
	GeneralRate string
	SpecialRate string
	Column2Rate string
}

// dutyState is the pending duty/unit text declared at one hierarchy depth.
type dutyState struct {
	general string
	special string
	column2 string
	unit    string
}

// Flatten expands the raw hierarchy into terminal records. Description
// levels and duty fields inherit vertically: a depth-indexed array of
// pending values is rewritten as rows walk the tree, and writing a shallow
// depth clears everything deeper (both spec texts and pending duty values).
// Only rows with a complete code are materialized.
func Flatten(rows []RawRow, maxLevels int) []model.Record {
	if maxLevels <= 0 {
		maxLevels = model.SpecLevelCount
	}

	levels := make([]string, maxLevels+1)
	duties := make([]dutyState, maxLevels+1)

	var out []model.Record
	for _, row := range rows {
		desc := strings.TrimSpace(row.Description)
		indent, indentKnown := parseIndent(row.Indent, maxLevels)

		if indentKnown && desc != "" {
			levels[indent] = desc
			for i := indent + 1; i <= maxLevels; i++ {
				levels[i] = ""
				duties[i] = dutyState{}
			}
		}

		if indentKnown {
			if v := strings.TrimSpace(row.GeneralRate); v != "" {
				duties[indent].general = v
			}
			if v := strings.TrimSpace(row.SpecialRate); v != "" {
				duties[indent].special = v
			}
			if v := strings.TrimSpace(row.Column2Rate); v != "" {
				duties[indent].column2 = v
			}
			if v := strings.TrimSpace(row.Unit); v != "" {
				duties[indent].unit = v
			}
		}

		digits := NormalizeCode(row.HTSNumber)
		if len(digits) < model.CodeLength {
			continue
		}

		rec := model.Record{
			Code:            digits[:model.CodeLength],
			RawCode:         row.HTSNumber,
			BaseDescription: levels[0],
			SpecLevels:      make([]string, maxLevels),
		}
		copy(rec.SpecLevels, levels[1:])
		if indentKnown {
			rec.IndentLevel = indent
			rec.GeneralRate = effective(duties, indent, func(d dutyState) string { return d.general })
			rec.SpecialRate = effective(duties, indent, func(d dutyState) string { return d.special })
			rec.Column2Rate = effective(duties, indent, func(d dutyState) string { return d.column2 })
			rec.Unit = effective(duties, indent, func(d dutyState) string { return d.unit })
		}
		out = append(out, rec)
	}
	return out
}

// effective scans from the row's own depth up to the root for the nearest
// non-empty pending value.
func effective(duties []dutyState, indent int, field func(dutyState) string) string {
	for lvl := indent; lvl >= 0; lvl-- {
		if v := field(duties[lvl]); v != "" {
			return v
		}
	}
	return ""
}

func parseIndent(s string, maxLevels int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if n > maxLevels {
		n = maxLevels
	}
	if n < 0 {
		n = 0
	}
	return n, true
}

// ReadRawCSV parses the source catalog export. Columns are matched by
// header name so column order in the export does not matter.
func ReadRawCSV(r io.Reader) ([]RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	get := func(fields []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	var rows []RawRow
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, RawRow{
			HTSNumber:   get(fields, "HTS Number"),
			Indent:      get(fields, "Indent"),
			Description: get(fields, "Description"),
			Unit:        get(fields, "Unit of Quantity"),
			GeneralRate: get(fields, "General Rate of Duty"),
			SpecialRate: get(fields, "Special Rate of Duty"),
			Column2Rate: get(fields, "Column 2 Rate of Duty"),
		})
	}
	return rows, nil
}
