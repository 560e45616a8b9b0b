package sound

import "math"

// AverageBins returns the mean of analyser frequency-bin magnitudes (0..255).
// This is the intensity browsers report via getByteFrequencyData.
func AverageBins(bins []uint8) float64 {
	if len(bins) == 0 {
		return 0
	}
	var sum int
	for _, b := range bins {
		sum += int(b)
	}
	return float64(sum) / float64(len(bins))
}

// PeakAmplitude returns the largest absolute value in a block of 16-bit PCM.
func PeakAmplitude(pcm []int16) float64 {
	var peak float64
	for _, v := range pcm {
		if a := math.Abs(float64(v)); a > peak {
			peak = a
		}
	}
	return peak
}

// MeterFraction maps an analyser intensity to the fill of a loudness meter.
// Quiet rooms sit around 20, so the bar starts there and saturates at 70.
func MeterFraction(intensity float64) float64 {
	h := math.Min((intensity-20)*3, 150)
	if h <= 0 || math.IsNaN(h) {
		return 0
	}
	return h / 150
}
