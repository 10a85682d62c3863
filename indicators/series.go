// Package indicators provides technical analysis indicators computed
// over full price columns. Every function returns a Series aligned 1:1
// with its input; entries before sufficient history are explicitly
// undefined rather than zero, and consumers must check Valid.
package indicators

// Value is one element of an indicator series. Valid is false while the
// indicator has not accumulated enough history.
type Value struct {
	Float64 float64
	Valid   bool
}

// Defined wraps a float64 in a valid Value.
func Defined(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// Series is an ordered sequence of indicator values aligned with the
// candle sequence that produced it.
type Series []Value

// At returns the value at index i, or an undefined Value when i is out
// of range.
func (s Series) At(i int) Value {
	if i < 0 || i >= len(s) {
		return Value{}
	}
	return s[i]
}

// Last returns the most recent value, or an undefined Value when the
// series is empty.
func (s Series) Last() Value {
	return s.At(len(s) - 1)
}

// undefined returns an all-undefined series of length n.
func undefined(n int) Series {
	return make(Series, n)
}
