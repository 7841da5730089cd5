package order

import "fmt"

type StockPolicy string

const (
	// StockAllowNegative decrements unconditionally; stock may go below zero.
	StockAllowNegative StockPolicy = "allow_negative"
	// StockReject fails the whole order when any physical item is short.
	StockReject StockPolicy = "reject"
)

type StatusPolicy string

const (
	// StatusForward allows moving to any later status in the lifecycle.
	StatusForward StatusPolicy = "forward"
	// StatusAny stores any non-empty status. This is the default.
	StatusAny StatusPolicy = "any"
)

// checkTransition validates moving an order from one status to another.
func (p StatusPolicy) checkTransition(from, to Status) error {
	if to == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidTransition)
	}
	if p == StatusAny {
		return nil
	}

	if !to.Known() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	fromRank, ok := statusRank[from]
	if !ok {
		// Orders written under the permissive policy may hold any string.
		return nil
	}
	if statusRank[to] < fromRank {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
