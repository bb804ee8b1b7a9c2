package param

import "math"

// Point is one automation value at a sample offset within a block.
type Point struct {
	Offset int
	Value  float64
}

// Queue holds the automation points delivered for one block, in offset order.
//
// Processing honors only the block's final value; intra-block ramps are not
// interpolated.
type Queue []Point

// Last returns the final point with a finite value. ok is false when the
// queue holds no usable point.
func (q Queue) Last() (p Point, ok bool) {
	for i := len(q) - 1; i >= 0; i-- {
		v := q[i].Value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		return q[i], true
	}

	return Point{}, false
}
