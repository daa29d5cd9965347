package models

// CircuitBreakerState is exported as a gauge value, so the order is fixed.
type CircuitBreakerState int

func (s CircuitBreakerState) String() string {
	switch s {
	case 0:
		return "closed"
	case 1:
		return "open"
	case 2:
		return "half_open"
	}
	return "unknown"
}
