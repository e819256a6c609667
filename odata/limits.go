package odata

// Limits bounds how much work a single query may request. Validate
// enforces MaxTop, MaxOrderFields, and MaxFilterNodes; WithCursorToken
// enforces MaxCursorLength before decoding. A zero field disables that
// check.
type Limits struct {
	MaxTop          uint64
	MaxOrderFields  int
	MaxFilterNodes  int
	MaxCursorLength int
}

func DefaultLimits() Limits {
	return Limits{
		MaxTop:          1000,
		MaxOrderFields:  5,
		MaxFilterNodes:  100,
		MaxCursorLength: 2048,
	}
}
