package engine

// ============================================================================
// TABLE BUILDER — Produces TableData from a view
// ============================================================================
// Every column is shown, in source order, with its raw text. Column discovery
// uses view.DimensionKeys() instead of inspecting Record maps.
// ============================================================================

// BuildTable lists every row of view with all of its columns.
// An empty view yields a table with columns but no rows.
func BuildTable(title string, view RecordView) *TableData {
	dimKeys := view.DimensionKeys()
	numeric := make(map[string]bool)
	for _, k := range view.MeasureKeys() {
		numeric[k] = true
	}

	columns := make([]Column, 0, len(dimKeys))
	for _, key := range dimKeys {
		col := Column{Key: key, Label: key, Type: "text", Align: "left"}
		if numeric[key] {
			col.Type = "number"
			col.Align = "right"
		}
		columns = append(columns, col)
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, 0, len(dimKeys))
		for _, key := range dimKeys {
			row = append(row, view.Dimension(i, key))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
	}
}
