package codec

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/neurlang/spectro/spectral"
)

// HalfPlane returns the amplitudes of s divided by the reference level as
// IEEE 754 half precision bits, row-major with the same orientation as the
// image (row 0 holds the highest bin). It keeps more precision than Encode
// at twice the size.
func HalfPlane(s *spectral.Spectrogram) ([]uint16, error) {
	if s == nil || s.Len() == 0 {
		return nil, spectral.ErrEmptySpectrogram
	}
	if !s.Uniform() {
		return nil, ErrNonUniformFrames
	}
	width, height := s.Len(), s.BinCount()
	ref := s.ReferenceLevel()
	out := make([]uint16, width*height)
	for x := 0; x < width; x++ {
		for bin, a := range s.Frame(x).Amplitude() {
			out[(height-bin-1)*width+x] = float16.Fromfloat32(float32(a / ref)).Bits()
		}
	}
	return out, nil
}

// FromHalfPlane rebuilds a spectrogram from a plane written by HalfPlane.
// meta must describe the plane completely, including FrameSize.
func FromHalfPlane(plane []uint16, meta Metadata) (*spectral.Spectrogram, error) {
	if err := meta.required(); err != nil {
		return nil, err
	}
	if meta.FrameSize < 2 {
		return nil, fmt.Errorf("%w: frame size", ErrMissingMetadata)
	}
	k, err := meta.Kernel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	height := spectral.BinCount(meta.FrameSize)
	if len(plane) == 0 || len(plane)%height != 0 {
		return nil, fmt.Errorf("%w: %d values for %d rows", ErrInvalidImage, len(plane), height)
	}
	width := len(plane) / height
	overlap, err := meta.overlap(meta.FrameSize)
	if err != nil {
		return nil, err
	}

	fm := spectral.Metadata{
		SampleRate:  meta.SamplingFrequency,
		SampleWidth: meta.sampleWidth(),
		Window:      k,
	}
	frames := make([]spectral.Frame, width)
	for x := range frames {
		amp := make([]float64, height)
		for bin := range amp {
			amp[bin] = float64(float16.Frombits(plane[(height-bin-1)*width+x]).Float32()) * meta.ReferenceLevel
		}
		f, err := spectral.NewFrame(meta.FrameSize, amp, make([]float64, height), meta.ReferenceLevel, fm)
		if err != nil {
			return nil, err
		}
		frames[x] = f
	}
	return spectral.NewSpectrogram(frames, spectral.Geometry{
		FrameSize:    meta.FrameSize,
		Overlap:      overlap,
		Edge:         spectral.EdgePad,
		SourceLength: meta.SourceLength,
	})
}
