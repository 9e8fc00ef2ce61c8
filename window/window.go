package window

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidLength is returned when factors are requested for fewer than two samples.
var ErrInvalidLength = errors.New("window length must be at least 2")

// ErrUnknownType is returned for a tag or name outside the kernel set.
var ErrUnknownType = errors.New("unknown window type")

// Type identifies a window kernel.
type Type int

const (
	Uniform Type = iota
	Hann
	Hamming
	ExactBlackman
	BlackmanHarris
	FlatTop
)

var typeNames = [...]string{
	Uniform:        "uniform",
	Hann:           "hann",
	Hamming:        "hamming",
	ExactBlackman:  "exact-blackman",
	BlackmanHarris: "blackman-harris",
	FlatTop:        "flat-top",
}

// Types lists every kernel tag in declaration order.
func Types() []Type {
	return []Type{Uniform, Hann, Hamming, ExactBlackman, BlackmanHarris, FlatTop}
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("window.Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a kernel name. Case, spaces and underscores are ignored,
// so "Flat Top", "flat_top" and "flat-top" are equivalent.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	switch key {
	case "rectangular", "boxcar", "none":
		return Uniform, nil
	case "hanning":
		return Hann, nil
	case "blackman":
		return ExactBlackman, nil
	}
	for i, n := range typeNames {
		if n == key {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Kernel is an immutable window descriptor.
type Kernel struct {
	Type Type
	Name string

	// CoherentGain is the mean attenuation applied to a constant signal.
	CoherentGain float64
	// NoisePowerBandwidth is the equivalent noise bandwidth in bins.
	NoisePowerBandwidth float64
	// MaxAmplitudeError is the worst-case scalloping loss in dB.
	MaxAmplitudeError float64
	// MaxSideLobeLevel is the highest side lobe in dB.
	MaxSideLobeLevel float64
	// RolloffRate is the side lobe fall-off in dB per decade.
	RolloffRate float64
	// Width3dB and Width6dB are main lobe widths in bins.
	Width3dB float64
	Width6dB float64

	// Scale multiplies every factor. Defaults to 1.
	Scale float64

	terms []float64
}

// Option configures a Kernel created by New.
type Option func(*Kernel)

// WithScale sets the constant multiplier applied to every factor.
func WithScale(scale float64) Option {
	return func(k *Kernel) {
		k.Scale = scale
	}
}

// New returns the kernel for t.
func New(t Type, opts ...Option) (Kernel, error) {
	k, ok := kernels[t]
	if !ok {
		return Kernel{}, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	k.Scale = 1
	for _, opt := range opts {
		if opt != nil {
			opt(&k)
		}
	}
	return k, nil
}

// Lookup returns the kernel registered under name.
func Lookup(name string, opts ...Option) (Kernel, error) {
	t, err := ParseType(name)
	if err != nil {
		return Kernel{}, err
	}
	return New(t, opts...)
}

// MustNew is like New but panics on an unknown tag.
func MustNew(t Type, opts ...Option) Kernel {
	k, err := New(t, opts...)
	if err != nil {
		panic(err)
	}
	return k
}

// All returns every kernel with default options.
func All() []Kernel {
	out := make([]Kernel, 0, len(kernels))
	for _, t := range Types() {
		out = append(out, MustNew(t))
	}
	return out
}

func (k Kernel) String() string {
	return k.Name + " window"
}

// Terms returns a copy of the cosine-sum coefficients a0..aK.
func (k Kernel) Terms() []float64 {
	return append([]float64(nil), k.terms...)
}

// Gain is the coherent gain of the kernel including its scale. Spectral
// analysis divides windowed samples by this value.
func (k Kernel) Gain() float64 {
	return k.CoherentGain * k.Scale
}

// Validate reports whether k is a usable kernel.
func (k Kernel) Validate() error {
	if _, ok := kernels[k.Type]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownType, int(k.Type))
	}
	if len(k.terms) == 0 {
		return fmt.Errorf("%s: no cosine terms", k.Name)
	}
	if !(k.CoherentGain > 0) || math.IsInf(k.CoherentGain, 0) {
		return fmt.Errorf("%s: coherent gain must be positive: %v", k.Name, k.CoherentGain)
	}
	if !(k.Scale > 0) || math.IsInf(k.Scale, 0) {
		return fmt.Errorf("%s: scale must be positive: %v", k.Name, k.Scale)
	}
	return nil
}

// Factors returns the scaling factors for length samples:
//
//	w[n] = scale * sum_k (-1)^k a_k cos(2*pi*k*n / (length-1))
func (k Kernel) Factors(length int) ([]float64, error) {
	if length < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if len(k.terms) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(k.Type))
	}

	out := make([]float64, length)
	if len(k.terms) == 1 {
		for i := range out {
			out[i] = k.terms[0]
		}
	} else {
		step := 2 * math.Pi / float64(length-1)
		for n := range out {
			x := step * float64(n)
			v := 0.0
			sign := 1.0
			for j, a := range k.terms {
				v += sign * a * math.Cos(float64(j)*x)
				sign = -sign
			}
			out[n] = v
		}
	}

	if k.Scale != 1 {
		vecmath.ScaleBlock(out, out, k.Scale)
	}
	return out, nil
}

// Process returns factors(len(samples)) multiplied elementwise with samples.
// The input is not modified.
func (k Kernel) Process(samples []float64) ([]float64, error) {
	return Process(k, samples)
}

// Factorer produces scaling factors for a given length.
type Factorer interface {
	Factors(length int) ([]float64, error)
}

// Process windows samples with the factors produced by f.
func Process(f Factorer, samples []float64) ([]float64, error) {
	factors, err := f.Factors(len(samples))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, factors)
	return out, nil
}

// Title returns the display name of the kernel, e.g. "Exact Blackman".
func (k Kernel) Title() string {
	return cases.Title(language.English).String(k.Name)
}
