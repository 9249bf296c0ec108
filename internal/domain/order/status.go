package order

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownPolicy     = errors.New("unknown transition policy")
)

// validTransitions defines allowed state transitions
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {}, // terminal state
	StatusCancelled:  {}, // terminal state
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is legal.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether the order still needs handling.
func (s Status) IsActive() bool {
	return s != StatusDelivered && s != StatusCancelled
}

// CanTransition checks the lifecycle graph.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionPolicy decides whether a status change may be applied.
type TransitionPolicy interface {
	Name() string
	Check(from, to Status) error
}

// StrictPolicy only allows edges of the lifecycle graph.
type StrictPolicy struct{}

func (StrictPolicy) Name() string { return "strict" }

func (StrictPolicy) Check(from, to Status) error {
	if CanTransition(from, to) {
		return nil
	}
	switch {
	case from.IsTerminal():
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	case from == to:
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, from, to)
	}
}

// LenientPolicy allows any change between known statuses. The ledger still
// flags changes outside the lifecycle graph as forced.
type LenientPolicy struct{}

func (LenientPolicy) Name() string { return "lenient" }

func (LenientPolicy) Check(from, to Status) error { return nil }

// ParsePolicy maps a configuration value to a policy.
func ParsePolicy(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "strict":
		return StrictPolicy{}, nil
	case "lenient":
		return LenientPolicy{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
}
