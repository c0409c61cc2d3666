package types

import (
	"time"

	"github.com/sensorkit/bno055/pkg/codec"
)

// Reading is a measurement sample as served by the daemon. It carries both the
// raw register values and the values scaled by the unit selection, so clients
// need not know the scale factors.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Labels    []string  `json:"labels"`
	Raw       []int16   `json:"raw"`
	Values    []float64 `json:"values"`
	Unit      string    `json:"unit"`
}

// NewReading builds a Reading from a sample taken at ts.
func NewReading(s codec.Sample, u codec.UnitSelection, ts time.Time) Reading {
	values, unit := s.Physical(u)
	return Reading{
		Timestamp: ts,
		Kind:      s.Kind.String(),
		Labels:    s.Kind.Labels(),
		Raw:       s.Values,
		Values:    values,
		Unit:      unit,
	}
}

// Sample returns the raw sample.
func (r Reading) Sample() (codec.Sample, error) {
	k, err := codec.ParseKind(r.Kind)
	if err != nil {
		return codec.Sample{}, err
	}
	return codec.Sample{Kind: k, Values: r.Raw}, nil
}
