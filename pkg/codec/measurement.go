package codec

import (
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies a measurement register block.
type Kind uint8

// Measurement kinds.
const (
	KindAccel Kind = iota
	KindMag
	KindGyro
	KindEuler
	KindQuaternion
	KindLinearAccel
	KindGravity
)

var kindNames = map[Kind]string{
	KindAccel:       "acc",
	KindMag:         "mag",
	KindGyro:        "gyr",
	KindEuler:       "eul",
	KindQuaternion:  "qua",
	KindLinearAccel: "lin",
	KindGravity:     "grv",
}

// AllKinds lists every measurement kind.
var AllKinds = []Kind{KindAccel, KindMag, KindGyro, KindEuler, KindQuaternion, KindLinearAccel, KindGravity}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind parses a short kind name such as "mag".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, pkgerrors.Wrapf(ErrOutOfRange, "unknown measurement kind %q", s)
}

// IsFusion reports whether the kind is computed by the fusion algorithm.
func (k Kind) IsFusion() bool {
	switch k {
	case KindEuler, KindQuaternion, KindLinearAccel, KindGravity:
		return true
	default:
		return false
	}
}

// Size returns the length of the register block.
func (k Kind) Size() int {
	if k == KindQuaternion {
		return 8
	}
	return 6
}

// Sample is one point-in-time measurement. Values hold the raw signed register
// values: x,y,z for vectors, heading,roll,pitch for Euler angles and w,x,y,z
// for quaternions.
type Sample struct {
	Kind   Kind    `json:"kind"`
	Values []int16 `json:"values"`
}

// DecodeSample decodes a little-endian measurement block.
func DecodeSample(k Kind, b []byte) (Sample, error) {
	if _, ok := kindNames[k]; !ok {
		return Sample{}, pkgerrors.Wrapf(ErrOutOfRange, "measurement kind %d", k)
	}
	if err := checkLen(b, k.Size(), k.String()+" sample"); err != nil {
		return Sample{}, err
	}

	n := k.Size() / 2
	values := make([]int16, n)
	for i := 0; i < n; i++ {
		values[i] = DecodeOffset(b[2*i], b[2*i+1])
	}

	return Sample{Kind: k, Values: values}, nil
}

// Physical converts the raw values to physical units according to the unit
// selection register and returns the unit label.
func (s Sample) Physical(u UnitSelection) ([]float64, string) {
	var lsb float64
	var unit string

	switch s.Kind {
	case KindAccel, KindLinearAccel, KindGravity:
		lsb, unit = 100, "m/s²"
		if u.AccelMilliG() {
			lsb, unit = 1, "mg"
		}
	case KindMag:
		lsb, unit = 16, "µT"
	case KindGyro:
		lsb, unit = 16, "dps"
		if u.GyroRPS() {
			lsb, unit = 900, "rps"
		}
	case KindEuler:
		lsb, unit = 16, "deg"
		if u.EulerRadians() {
			lsb, unit = 900, "rad"
		}
	case KindQuaternion:
		lsb, unit = 1<<14, ""
	default:
		lsb = 1
	}

	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = float64(v) / lsb
	}
	return out, unit
}

// Labels returns the component names of the sample, e.g. X, Y, Z.
func (k Kind) Labels() []string {
	switch k {
	case KindEuler:
		return []string{"H", "R", "P"}
	case KindQuaternion:
		return []string{"W", "X", "Y", "Z"}
	default:
		return []string{"X", "Y", "Z"}
	}
}
