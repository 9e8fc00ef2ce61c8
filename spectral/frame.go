package spectral

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/spectro/units"
	"github.com/neurlang/spectro/window"
)

// Metadata identifies the source of a frame. All frames of one Spectrogram
// share it.
type Metadata struct {
	SampleRate  int
	SampleWidth int
	Window      window.Kernel
}

func (m Metadata) equal(o Metadata) bool {
	return m.SampleRate == o.SampleRate &&
		m.SampleWidth == o.SampleWidth &&
		m.Window.Type == o.Window.Type &&
		m.Window.Scale == o.Window.Scale
}

// Frame is the half spectrum of one windowed slice. Frames are immutable;
// accessors return copies.
type Frame struct {
	length    int
	bins      []float64
	amplitude []float64
	phase     []float64
	rms       []float64
	power     []float64
	reference float64
	meta      Metadata
}

// BinCount returns ceil(n/2), the number of bins kept for an n-sample frame.
func BinCount(n int) int {
	return (n + 1) / 2
}

// ReferenceLevel returns 2^(8*sampleWidth-1).
func ReferenceLevel(sampleWidth int) float64 {
	return math.Ldexp(1, 8*sampleWidth-1)
}

// NewFrame builds a frame of an n-sample slice from its amplitude spectrum.
// RMS and power are derived from amplitude. phase may be nil.
func NewFrame(n int, amplitude, phase []float64, reference float64, meta Metadata) (Frame, error) {
	if n < 2 {
		return Frame{}, fmt.Errorf("%w: frame length %d", window.ErrInvalidLength, n)
	}
	if len(amplitude) != BinCount(n) {
		return Frame{}, fmt.Errorf("%w: %d amplitude bins for a %d-sample frame", ErrInconsistentFrames, len(amplitude), n)
	}
	if phase != nil && len(phase) != len(amplitude) {
		return Frame{}, fmt.Errorf("%w: %d phase bins, %d amplitude bins", ErrInconsistentFrames, len(phase), len(amplitude))
	}
	if meta.SampleRate <= 0 {
		return Frame{}, fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, meta.SampleRate)
	}
	if !(reference > 0) {
		return Frame{}, fmt.Errorf("%w: reference level %v", ErrInvalidConfig, reference)
	}

	f := Frame{
		length:    n,
		bins:      frequencyBins(n, meta.SampleRate),
		amplitude: append([]float64(nil), amplitude...),
		reference: reference,
		meta:      meta,
	}
	if phase != nil {
		f.phase = append([]float64(nil), phase...)
	}
	f.rms, f.power = deriveRMS(f.amplitude)
	return f, nil
}

func frequencyBins(n, sampleRate int) []float64 {
	bins := make([]float64, BinCount(n))
	spacing := float64(sampleRate) / float64(n)
	for i := range bins {
		bins[i] = float64(i) * spacing
	}
	return bins
}

func deriveRMS(amplitude []float64) (rms, power []float64) {
	rms = make([]float64, len(amplitude))
	copy(rms, amplitude)
	if len(rms) > 1 {
		floats.Scale(math.Sqrt2, rms[1:])
	}
	power = make([]float64, len(rms))
	floats.MulTo(power, rms, rms)
	return rms, power
}

// Len returns the number of samples the frame was computed from.
func (f Frame) Len() int { return f.length }

// BinCount returns the number of frequency bins.
func (f Frame) BinCount() int { return len(f.bins) }

// Bins returns the bin centre frequencies in Hz.
func (f Frame) Bins() []float64 { return append([]float64(nil), f.bins...) }

// BinSpacing returns sampleRate / N.
func (f Frame) BinSpacing() float64 {
	return float64(f.meta.SampleRate) / float64(f.length)
}

// Nyquist returns sampleRate / 2.
func (f Frame) Nyquist() float64 {
	return float64(f.meta.SampleRate) / 2
}

// MaxFrequency returns Nyquist - BinSpacing.
func (f Frame) MaxFrequency() float64 {
	return f.Nyquist() - f.BinSpacing()
}

// Amplitude returns the amplitude spectrum.
func (f Frame) Amplitude() []float64 { return append([]float64(nil), f.amplitude...) }

// Phase returns the phase spectrum in radians, or nil when it was not recorded.
func (f Frame) Phase() []float64 {
	if f.phase == nil {
		return nil
	}
	return append([]float64(nil), f.phase...)
}

// HasPhase reports whether a phase spectrum was recorded.
func (f Frame) HasPhase() bool { return f.phase != nil }

// RMS returns the RMS amplitude spectrum.
func (f Frame) RMS() []float64 { return append([]float64(nil), f.rms...) }

// Power returns the power spectrum.
func (f Frame) Power() []float64 { return append([]float64(nil), f.power...) }

// ReferenceLevel returns the full scale magnitude used for normalisation.
func (f Frame) ReferenceLevel() float64 { return f.reference }

// Metadata returns the frame's source metadata.
func (f Frame) Metadata() Metadata { return f.meta }

// DB returns the amplitude spectrum in dB relative to the reference level.
func (f Frame) DB() []float64 {
	return units.SliceToDB(f.amplitude, f.reference, true)
}

// Peak describes the strongest bin of a frame.
type Peak struct {
	Bin       int
	Frequency float64
	Amplitude float64
}

// Peak returns the strongest non-DC bin.
func (f Frame) Peak() Peak {
	if len(f.amplitude) < 2 {
		return Peak{Amplitude: f.amplitude[0]}
	}
	i := floats.MaxIdx(f.amplitude[1:]) + 1
	return Peak{Bin: i, Frequency: f.bins[i], Amplitude: f.amplitude[i]}
}
