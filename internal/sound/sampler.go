// Package sound turns loudness readings into game triggers.
//
// Capture devices live outside this package: hosts push readings into a
// Source, and the simulation polls the latest value once per tick without
// ever blocking on device I/O.
package sound

import "math"

// Sampler compares sanitised intensity readings against a threshold.
type Sampler struct {
	Threshold    float64
	MaxIntensity float64 // readings above this are clamped; 0 means unbounded
}

// NewSampler creates a sampler for the given threshold and capture range.
func NewSampler(threshold, maxIntensity float64) Sampler {
	return Sampler{Threshold: threshold, MaxIntensity: maxIntensity}
}

// Sample reports whether raw exceeds the threshold after sanitising.
func (s Sampler) Sample(raw float64) bool {
	return Triggered(Sanitize(raw, s.MaxIntensity), s.Threshold)
}

// Level returns raw sanitised and scaled to [0, 1] of the capture range.
func (s Sampler) Level(raw float64) float64 {
	if s.MaxIntensity <= 0 {
		return 0
	}
	return Sanitize(raw, s.MaxIntensity) / s.MaxIntensity
}

// Triggered returns true iff intensity strictly exceeds threshold.
func Triggered(intensity, threshold float64) bool {
	return intensity > threshold
}

// Sanitize clamps a raw reading into [0, max]. NaN, infinities of either
// sign and negative values become 0 so a bad reading never triggers.
// A max of 0 leaves the upper end unbounded.
func Sanitize(raw, max float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return 0
	}
	if max > 0 && raw > max {
		return max
	}
	return raw
}
