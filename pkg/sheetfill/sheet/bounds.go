package sheet

// countDataRows returns the number of data rows below the header, up to and
// including the last row holding a non-empty cell.
func countDataRows(rows [][]string) int {
	if last := lastDataRow(rows); last > 0 {
		return last
	}
	return 0
}

// lastDataRow returns the index of the last row with a non-empty cell, or -1.
func lastDataRow(rows [][]string) int {
	for i := len(rows) - 1; i >= 0; i-- {
		for _, cell := range rows[i] {
			if cell != "" {
				return i
			}
		}
	}
	return -1
}
