package render

// MetricItem is one labeled value in a metric grid.
type MetricItem struct {
	Icon  string
	Label string
	Value string
}

// MetricCell is a grid slot; filler cells keep the last row two columns wide.
type MetricCell struct {
	MetricItem
	Filler bool
}

// MetricRow always holds exactly two cells.
type MetricRow struct {
	Cells [2]MetricCell
}

// MetricGrid is a fixed two-column layout. Email clients render tables
// reliably where flex or wrapping boxes drift out of place.
type MetricGrid struct {
	Rows []MetricRow
}

// Layout pairs items row by row, left to right. An odd item count leaves a
// filler cell at the end of the last row.
func Layout(items []MetricItem) MetricGrid {
	g := MetricGrid{Rows: make([]MetricRow, 0, (len(items)+1)/2)}
	for i := 0; i < len(items); i += 2 {
		row := MetricRow{}
		row.Cells[0] = MetricCell{MetricItem: items[i]}
		if i+1 < len(items) {
			row.Cells[1] = MetricCell{MetricItem: items[i+1]}
		} else {
			row.Cells[1] = MetricCell{Filler: true}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// Len reports the number of real (non-filler) cells.
func (g MetricGrid) Len() int {
	n := 0
	for _, r := range g.Rows {
		for _, c := range r.Cells {
			if !c.Filler {
				n++
			}
		}
	}
	return n
}
