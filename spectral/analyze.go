package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"

	"github.com/neurlang/spectro/wave"
	"github.com/neurlang/spectro/window"
)

// AnalyzeFrame transforms one slice of a waveform. The phase spectrum is
// recorded when withPhase is set.
func AnalyzeFrame(frame wave.Buffer, k window.Kernel, withPhase bool) (Frame, error) {
	if err := k.Validate(); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	meta := Metadata{
		SampleRate:  frame.SampleRate(),
		SampleWidth: frame.SampleWidth(),
		Window:      k,
	}
	return analyze(frame.Float64(), k, meta, withPhase)
}

// analyze implements the forward transform for a validated kernel. f supplies
// the window factors, so callers can route through a cache.
func analyze(samples []float64, f window.Factorer, meta Metadata, withPhase bool) (Frame, error) {
	n := len(samples)
	if n < 2 {
		return Frame{}, fmt.Errorf("%w: frame length %d", window.ErrInvalidLength, n)
	}

	windowed, err := window.Process(f, samples)
	if err != nil {
		return Frame{}, err
	}
	vecmath.ScaleBlock(windowed, windowed, 1/meta.Window.Gain())

	bins := BinCount(n)
	coeffs := fft.FFTReal(windowed)[:bins]

	re := make([]float64, bins)
	im := make([]float64, bins)
	for i, c := range coeffs {
		re[i] = real(c)
		im[i] = imag(c)
	}
	amplitude := make([]float64, bins)
	vecmath.Magnitude(amplitude, re, im)

	// Fold the discarded negative half back in; DC has no mirror.
	vecmath.ScaleBlock(amplitude, amplitude, 2/float64(n))
	amplitude[0] /= 2

	var phase []float64
	if withPhase {
		phase = make([]float64, bins)
		for i, c := range coeffs {
			phase[i] = cmplx.Phase(c)
			if phase[i] == -math.Pi {
				phase[i] = math.Pi
			}
		}
	}

	fr := Frame{
		length:    n,
		bins:      frequencyBins(n, meta.SampleRate),
		amplitude: amplitude,
		phase:     phase,
		reference: ReferenceLevel(meta.SampleWidth),
		meta:      meta,
	}
	fr.rms, fr.power = deriveRMS(amplitude)
	return fr, nil
}
