package codec

import (
	"errors"
	"fmt"
	"math"

	"github.com/neurlang/spectro/spectral"
	"github.com/neurlang/spectro/wave"
	"github.com/neurlang/spectro/window"
)

var (
	// ErrMissingMetadata is returned by Decode when the sampling frequency,
	// window or reference level is known neither from the image nor from
	// the caller's defaults.
	ErrMissingMetadata = errors.New("missing image metadata")
	// ErrNonUniformFrames is returned by Encode for spectrograms whose frames
	// differ in length.
	ErrNonUniformFrames = errors.New("frames differ in length")
	// ErrInvalidImage is returned when an image does not fit its metadata.
	ErrInvalidImage = errors.New("invalid spectrogram image")
)

// Metadata describes how an image was produced. Zero fields are unknown.
type Metadata struct {
	SamplingFrequency int     `yaml:"sampling_frequency"`
	Window            string  `yaml:"window"`
	WindowScale       float64 `yaml:"window_scale,omitempty"`
	ReferenceLevel    float64 `yaml:"reference_level"`
	FrameSize         int     `yaml:"frame_size,omitempty"`
	Hop               int     `yaml:"hop,omitempty"`
	SourceLength      int     `yaml:"source_length,omitempty"`
	SampleWidth       int     `yaml:"sample_width,omitempty"`
}

// Merge returns m with its unknown fields taken from defaults.
func (m Metadata) Merge(defaults Metadata) Metadata {
	if m.SamplingFrequency == 0 {
		m.SamplingFrequency = defaults.SamplingFrequency
	}
	if m.Window == "" {
		m.Window = defaults.Window
		if m.WindowScale == 0 {
			m.WindowScale = defaults.WindowScale
		}
	}
	if m.ReferenceLevel == 0 {
		m.ReferenceLevel = defaults.ReferenceLevel
	}
	if m.FrameSize == 0 {
		m.FrameSize = defaults.FrameSize
	}
	if m.Hop == 0 {
		m.Hop = defaults.Hop
	}
	if m.SourceLength == 0 {
		m.SourceLength = defaults.SourceLength
	}
	if m.SampleWidth == 0 {
		m.SampleWidth = defaults.SampleWidth
	}
	return m
}

// Kernel resolves the window named by m.
func (m Metadata) Kernel() (window.Kernel, error) {
	if m.Window == "" {
		return window.Kernel{}, fmt.Errorf("%w: window", ErrMissingMetadata)
	}
	var opts []window.Option
	if m.WindowScale != 0 {
		opts = append(opts, window.WithScale(m.WindowScale))
	}
	return window.Lookup(m.Window, opts...)
}

// required checks the fields decoding cannot do without.
func (m Metadata) required() error {
	var missing []string
	if m.SamplingFrequency <= 0 {
		missing = append(missing, "sampling frequency")
	}
	if m.Window == "" {
		missing = append(missing, "window")
	}
	if !(m.ReferenceLevel > 0) || math.IsInf(m.ReferenceLevel, 0) {
		missing = append(missing, "reference level")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingMetadata, missing)
	}
	return nil
}

// overlap returns the samples shared by consecutive frames of the given size.
// A recorded hop is never zero, so an unset field means unknown.
func (m Metadata) overlap(size int) (int, error) {
	hop := m.Hop
	if hop == 0 {
		hop = size - size/2
	}
	if hop < 1 || hop > size {
		return 0, fmt.Errorf("%w: hop %d for frames of %d samples", ErrInvalidImage, hop, size)
	}
	return size - hop, nil
}

// sampleWidth returns the recorded width, or the narrowest width whose full
// scale reaches the reference level.
func (m Metadata) sampleWidth() int {
	if m.SampleWidth > 0 {
		return m.SampleWidth
	}
	for w := 1; w < wave.MaxWidth; w++ {
		if spectral.ReferenceLevel(w) >= m.ReferenceLevel {
			return w
		}
	}
	return wave.MaxWidth
}

func describe(s *spectral.Spectrogram) Metadata {
	meta := s.Metadata()
	g := s.Geometry()
	m := Metadata{
		SamplingFrequency: meta.SampleRate,
		Window:            meta.Window.Name,
		ReferenceLevel:    s.ReferenceLevel(),
		FrameSize:         g.FrameSize,
		Hop:               g.Hop(),
		SourceLength:      g.SourceLength,
		SampleWidth:       meta.SampleWidth,
	}
	if meta.Window.Scale != 1 {
		m.WindowScale = meta.Window.Scale
	}
	return m
}
