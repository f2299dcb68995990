package region

// vertex is a pixel-grid corner coordinate, used internally while tracing
// boundaries. It is deliberately integer-valued so that topology decisions
// (equality, hashing, turning order) never depend on floating point.
type vertex struct {
	Col, Row int
}

func (v vertex) add(d vertex) vertex { return vertex{v.Col + d.Col, v.Row + d.Row} }
func (v vertex) sub(o vertex) vertex { return vertex{v.Col - o.Col, v.Row - o.Row} }
func (v vertex) neg() vertex         { return vertex{-v.Col, -v.Row} }

// The four axis-aligned directions a boundary-tracing step can take,
// ordered clockwise (row increases downward, so East->South->West->North
// is the clockwise cycle). Every edge produced by edgesForPixel has one of
// these directions.
var (
	dirE = vertex{1, 0}
	dirS = vertex{0, 1}
	dirW = vertex{-1, 0}
	dirN = vertex{0, -1}

	clockwiseOrder = [4]vertex{dirE, dirS, dirW, dirN}
)

func dirIndex(d vertex) int {
	for i, c := range clockwiseOrder {
		if c == d {
			return i
		}
	}
	panic("region: non-axis-aligned direction")
}

// shoelaceInt returns twice the signed area of a closed integer ring
// (first == last), using the standard shoelace formula. Sign depends only
// on traversal order in (Col, Row) space, not on any real-world CRS.
func shoelaceInt(ring []vertex) int {
	sum := 0
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		sum += a.Col*b.Row - b.Col*a.Row
	}
	return sum
}
