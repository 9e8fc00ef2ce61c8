package window

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Analysis holds numerically measured properties of a factor vector.
type Analysis struct {
	// CoherentGain is sum(w) / N.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the two-sided half-power main lobe width in bins.
	Bandwidth3dB float64
	// ScallopLossdB is the response at half a bin offset relative to DC.
	ScallopLossdB float64
}

// Analyze measures factors by direct DTFT evaluation.
func Analyze(factors []float64) Analysis {
	n := len(factors)
	if n == 0 {
		return Analysis{}
	}

	dc := dtftMagSq(factors, 0)
	if dc == 0 {
		return Analysis{}
	}

	sum := floats.Sum(factors)
	sumSq := floats.Dot(factors, factors)

	a := Analysis{
		CoherentGain: sum / float64(n),
		ENBW:         float64(n) * sumSq / (sum * sum),
	}

	if half := dtftMagSq(factors, 0.5/float64(n)); half > 0 {
		a.ScallopLossdB = 10 * math.Log10(half/dc)
	}

	// Bisection for |W(f)|^2 / |W(0)|^2 = 0.5 on [0, nyquist].
	lo, hi := 0.0, 0.5
	for range 80 {
		mid := (lo + hi) / 2
		if dtftMagSq(factors, mid)/dc > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}
	a.Bandwidth3dB = 2 * lo * float64(n)

	return a
}

// dtftMagSq evaluates |W(f)|^2 at normalised frequency f.
func dtftMagSq(w []float64, f float64) float64 {
	re, im := 0.0, 0.0
	omega := 2 * math.Pi * f
	for k, c := range w {
		s, co := math.Sincos(omega * float64(k))
		re += c * co
		im -= c * s
	}
	return re*re + im*im
}
