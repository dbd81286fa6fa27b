package types

import "cmp"

// Point is a zero-based row/column position in source code.
// Col is a byte offset within the line, in the parser's units.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Compare orders points by row, then column.
func (p Point) Compare(other Point) int {
	if c := cmp.Compare(p.Row, other.Row); c != 0 {
		return c
	}
	return cmp.Compare(p.Col, other.Col)
}

// Range is a half-open byte range [StartByte, EndByte) together with the
// points it spans.
type Range struct {
	StartByte  int   `json:"start_byte"`
	EndByte    int   `json:"end_byte"`
	StartPoint Point `json:"start_point"`
	EndPoint   Point `json:"end_point"`
}

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool {
	return r.StartByte == r.EndByte
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.EndByte - r.StartByte
}
