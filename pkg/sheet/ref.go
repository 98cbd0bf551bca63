package sheet

import (
	"regexp"
	"strconv"
	"strings"
)

// CellPos identifies a cell by 1-based column and row numbers.
type CellPos struct {
	Col int
	Row int
}

// Range is a normalised cell range: Start.Col <= End.Col and
// Start.Row <= End.Row.
type Range struct {
	Start CellPos
	End   CellPos
}

// Contains reports whether pos lies inside the range bounds.
func (r Range) Contains(pos CellPos) bool {
	return pos.Col >= r.Start.Col && pos.Col <= r.End.Col &&
		pos.Row >= r.Start.Row && pos.Row <= r.End.Row
}

var cellRefPattern = regexp.MustCompile(`^([A-Z]{1,3})([1-9][0-9]*)$`)

// ParseCellRef parses a single cell reference such as "A1" or "ZZ10".
// ok is false for malformed references; callers skip those.
func ParseCellRef(ref string) (CellPos, bool) {
	m := cellRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return CellPos{}, false
	}
	row, err := strconv.Atoi(m[2])
	if err != nil {
		return CellPos{}, false
	}
	return CellPos{Col: ColumnNumber(m[1]), Row: row}, true
}

// ParseRangeRef parses a range reference such as "A1:B2". A bare cell
// reference parses as the degenerate range start==end. The result is
// normalised so Start is the top-left corner.
func ParseRangeRef(ref string) (Range, bool) {
	start, rest, found := strings.Cut(ref, ":")
	s, ok := ParseCellRef(start)
	if !ok {
		return Range{}, false
	}
	if !found {
		return Range{Start: s, End: s}, true
	}
	e, ok := ParseCellRef(rest)
	if !ok {
		return Range{}, false
	}
	return Range{
		Start: CellPos{Col: min(s.Col, e.Col), Row: min(s.Row, e.Row)},
		End:   CellPos{Col: max(s.Col, e.Col), Row: max(s.Row, e.Row)},
	}, true
}

// ColumnNumber converts column letters to the 1-based column number
// (A=1, Z=26, AA=27). The input must be uppercase A-Z.
func ColumnNumber(letters string) int {
	n := 0
	for _, c := range letters {
		n = n*26 + int(c-'A'+1)
	}
	return n
}

// ColumnLetters converts a 1-based column number back to letters.
// It is the inverse of [ColumnNumber] for n >= 1.
func ColumnLetters(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
