package coverage

import (
	"fmt"
	"math"
)

// Decay kinds accepted by ParseDecay
const (
	DecayKindBinary      = "binary"
	DecayKindExponential = "exponential"
)

// Decay maps a distance to a coverage value in [0, 1].
type Decay interface {
	// Apply computes the coverage contributed by a sensor at the given distance.
	Apply(distance float64) float64
	// Kind returns the decay kind name.
	Kind() string
	// Param returns the single decay parameter (radius or theta).
	Param() float64
}

// BinaryDecay is a hard threshold: 1 inside the radius, 0 at or beyond it.
// The comparison is strict so a site exactly at the radius is not covered.
type BinaryDecay struct {
	Radius float64
}

// NewBinaryDecay creates a binary decay with the given cutoff radius
func NewBinaryDecay(radius float64) (BinaryDecay, error) {
	if radius <= 0 {
		return BinaryDecay{}, &InvalidParameterError{Param: "radius", Reason: "must be positive"}
	}
	return BinaryDecay{Radius: radius}, nil
}

func (d BinaryDecay) Apply(distance float64) float64 {
	if distance < d.Radius {
		return 1
	}
	return 0
}

func (d BinaryDecay) Kind() string {
	return DecayKindBinary
}

func (d BinaryDecay) Param() float64 {
	return d.Radius
}

// ExponentialDecay decays coverage as exp(-distance/theta)
type ExponentialDecay struct {
	Theta float64
}

// NewExponentialDecay creates an exponential decay with scale length theta
func NewExponentialDecay(theta float64) (ExponentialDecay, error) {
	if theta <= 0 {
		return ExponentialDecay{}, &InvalidParameterError{Param: "theta", Reason: "must be positive"}
	}
	return ExponentialDecay{Theta: theta}, nil
}

func (d ExponentialDecay) Apply(distance float64) float64 {
	return math.Exp(-distance / d.Theta)
}

func (d ExponentialDecay) Kind() string {
	return DecayKindExponential
}

func (d ExponentialDecay) Param() float64 {
	return d.Theta
}

// ParseDecay creates a decay from a kind name and its parameter
func ParseDecay(kind string, param float64) (Decay, error) {
	switch kind {
	case DecayKindBinary:
		return NewBinaryDecay(param)
	case DecayKindExponential:
		return NewExponentialDecay(param)
	default:
		return nil, &InvalidParameterError{
			Param:  "decay_kind",
			Reason: fmt.Sprintf("unknown kind %q (must be %s or %s)", kind, DecayKindBinary, DecayKindExponential),
		}
	}
}
