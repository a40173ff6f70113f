package indicator

import (
	"math"
	"strconv"
)

// Series is a numeric column aligned 1:1 with a table's rows. Rows where the
// rolling window has not seen enough history hold NaN, the explicit
// "undefined" marker. It is never coerced to zero; JSON renders it as null.
type Series []float64

func Undefined() float64 { return math.NaN() }

func Defined(v float64) bool { return !math.IsNaN(v) }

// FirstDefined returns the index of the first defined value, or -1.
func (s Series) FirstDefined() int {
	for i, v := range s {
		if Defined(v) {
			return i
		}
	}
	return -1
}

func (s Series) Last() float64 {
	for i := len(s) - 1; i >= 0; i-- {
		if Defined(s[i]) {
			return s[i]
		}
	}
	return Undefined()
}

// MarshalJSON emits null for undefined cells. encoding/json rejects NaN
// outright, so the column serializes itself.
func (s Series) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(s)*8+2)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if !Defined(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
	}
	buf = append(buf, ']')
	return buf, nil
}
