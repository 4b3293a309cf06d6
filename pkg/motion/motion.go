// Package motion provides the prescribed rigid-body displacement laws
// applied to moving mesh boundaries.
package motion

import "math"

// Law computes the displacement of a boundary at physical time t. The
// displacement is applied uniformly to every vertex of the marker.
type Law interface {
	Displacement(t float64) (dx, dy, dz float64)
}

// Sinusoid is a vertical plunging motion d_y = Amplitude*sin(2*pi*Frequency*t)
// with zero in-plane and spanwise components.
type Sinusoid struct {
	Amplitude float64
	Frequency float64
}

// DefaultSinusoid reproduces the flat-plate plunging case: 0.0175 amplitude
// at unit frequency.
func DefaultSinusoid() Sinusoid {
	return Sinusoid{Amplitude: 0.0175, Frequency: 1.0}
}

func (s Sinusoid) Displacement(t float64) (dx, dy, dz float64) {
	return 0, s.Amplitude * math.Sin(2*math.Pi*s.Frequency*t), 0
}
