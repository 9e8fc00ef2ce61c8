// Package wave holds mono integer PCM sample buffers.
//
// A Buffer owns its samples. Every operation that derives a new buffer
// (Slice, Normalise, Resample, ...) returns a fresh copy, so a buffer and the
// buffers derived from it never share memory.
package wave

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidFormat is returned for a non-positive sample rate or width.
	ErrInvalidFormat = errors.New("invalid sample format")
	// ErrSliceBounds is returned when slice bounds fall outside [0, length] or start >= end.
	ErrSliceBounds = errors.New("slice bounds out of range")
	// ErrEmpty is returned when an operation needs at least one sample.
	ErrEmpty = errors.New("empty buffer")
)

// MaxWidth is the widest supported sample, in bytes.
const MaxWidth = 4

// Buffer is a mono sequence of signed integer samples.
type Buffer struct {
	samples    []int
	sampleRate int
	width      int
}

// New copies samples into a buffer recorded at sampleRate Hz with sampleWidth
// bytes per sample.
func New(samples []int, sampleRate, sampleWidth int) (Buffer, error) {
	if err := validateFormat(sampleRate, sampleWidth); err != nil {
		return Buffer{}, err
	}
	return Buffer{
		samples:    append([]int(nil), samples...),
		sampleRate: sampleRate,
		width:      sampleWidth,
	}, nil
}

func validateFormat(sampleRate, sampleWidth int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, sampleRate)
	}
	if sampleWidth <= 0 || sampleWidth > MaxWidth {
		return fmt.Errorf("%w: sample width %d", ErrInvalidFormat, sampleWidth)
	}
	return nil
}

// FromFloat rounds samples to integers, clamping to the range of sampleWidth.
func FromFloat(samples []float64, sampleRate, sampleWidth int) (Buffer, error) {
	if err := validateFormat(sampleRate, sampleWidth); err != nil {
		return Buffer{}, err
	}
	lo, hi := -math.Ldexp(1, 8*sampleWidth-1), math.Ldexp(1, 8*sampleWidth-1)-1
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(math.Max(lo, math.Min(hi, math.Round(v))))
	}
	return Buffer{samples: out, sampleRate: sampleRate, width: sampleWidth}, nil
}

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b.samples) }

// SampleRate returns the sample rate in Hz.
func (b Buffer) SampleRate() int { return b.sampleRate }

// SampleWidth returns the sample width in bytes.
func (b Buffer) SampleWidth() int { return b.width }

// BitDepth returns 8 * SampleWidth.
func (b Buffer) BitDepth() int { return 8 * b.width }

// FullScale returns 2^(bitDepth-1), the peak signed magnitude.
func (b Buffer) FullScale() float64 {
	return math.Ldexp(1, b.BitDepth()-1)
}

// At returns sample i.
func (b Buffer) At(i int) int { return b.samples[i] }

// Samples returns a copy of the samples.
func (b Buffer) Samples() []int {
	return append([]int(nil), b.samples...)
}

// Float64 returns the samples converted to float64.
func (b Buffer) Float64() []float64 {
	out := make([]float64, len(b.samples))
	for i, v := range b.samples {
		out[i] = float64(v)
	}
	return out
}

// Normalized returns the samples divided by FullScale, in [-1, 1).
func (b Buffer) Normalized() []float64 {
	out := b.Float64()
	floats.Scale(1/b.FullScale(), out)
	return out
}

// Duration returns the length in seconds.
func (b Buffer) Duration() float64 {
	if b.sampleRate == 0 {
		return 0
	}
	return float64(len(b.samples)) / float64(b.sampleRate)
}

// Slice returns an independent copy of samples [start, end).
func (b Buffer) Slice(start, end int) (Buffer, error) {
	if start < 0 || end > len(b.samples) || start >= end {
		return Buffer{}, fmt.Errorf("%w: [%d:%d] of %d", ErrSliceBounds, start, end, len(b.samples))
	}
	return Buffer{
		samples:    append([]int(nil), b.samples[start:end]...),
		sampleRate: b.sampleRate,
		width:      b.width,
	}, nil
}

// Normalise scales b so its largest magnitude sample reaches full scale.
func Normalise(b Buffer) (Buffer, error) {
	if b.Len() == 0 {
		return Buffer{}, ErrEmpty
	}
	x := b.Float64()
	peak := math.Max(math.Abs(floats.Min(x)), math.Abs(floats.Max(x)))
	if peak == 0 {
		return New(b.samples, b.sampleRate, b.width)
	}
	floats.Scale((b.FullScale()-1)/peak, x)
	return FromFloat(x, b.sampleRate, b.width)
}

// Sine synthesises n samples of amplitude*sin(2*pi*freq*t), where amplitude
// is a fraction of full scale.
func Sine(freq, amplitude float64, sampleRate, sampleWidth, n int) (Buffer, error) {
	if err := validateFormat(sampleRate, sampleWidth); err != nil {
		return Buffer{}, err
	}
	peak := amplitude * (math.Ldexp(1, 8*sampleWidth-1) - 1)
	x := make([]float64, n)
	for i := range x {
		x[i] = peak * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return FromFloat(x, sampleRate, sampleWidth)
}
