package layout

import "github.com/matzehuels/sheetshot/pkg/sheet"

// mergeIndex maps every cell inside a merged range to that range.
// Ranges keep their declaration order; malformed references are skipped.
type mergeIndex struct {
	ranges []sheet.Range
	byCell map[int]map[int]int // col -> row -> index into ranges
}

func buildMergeIndex(refs []string) *mergeIndex {
	idx := &mergeIndex{byCell: make(map[int]map[int]int)}
	for _, ref := range refs {
		r, ok := sheet.ParseRangeRef(ref)
		if !ok {
			continue
		}
		id := len(idx.ranges)
		idx.ranges = append(idx.ranges, r)
		for col := r.Start.Col; col <= r.End.Col; col++ {
			rows := idx.byCell[col]
			if rows == nil {
				rows = make(map[int]int)
				idx.byCell[col] = rows
			}
			for row := r.Start.Row; row <= r.End.Row; row++ {
				rows[row] = id
			}
		}
	}
	return idx
}

// rangeAt returns the merged range containing pos, if any.
func (m *mergeIndex) rangeAt(pos sheet.CellPos) (sheet.Range, bool) {
	rows, ok := m.byCell[pos.Col]
	if !ok {
		return sheet.Range{}, false
	}
	id, ok := rows[pos.Row]
	if !ok {
		return sheet.Range{}, false
	}
	return m.ranges[id], true
}
