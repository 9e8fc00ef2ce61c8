package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/neurlang/spectro/spectral"
)

// Image is an encoded spectrogram: one column per frame, one row per bin.
type Image struct {
	Pixels   *image.Gray
	Metadata Metadata
}

// Width returns the number of frames.
func (im *Image) Width() int { return im.Pixels.Bounds().Dx() }

// Height returns the number of bins.
func (im *Image) Height() int { return im.Pixels.Bounds().Dy() }

// FromImage wraps any image, converting it to grayscale.
func FromImage(src image.Image, meta Metadata) *Image {
	if g, ok := src.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return &Image{Pixels: g, Metadata: meta}
	}
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), src, b.Min, draw.Src)
	return &Image{Pixels: g, Metadata: meta}
}

// Quantize maps an amplitude to a pixel intensity.
func Quantize(amplitude, reference float64) uint8 {
	v := math.Round(255 * amplitude / reference)
	return uint8(math.Max(0, math.Min(255, v)))
}

// Dequantize maps a pixel intensity back to an amplitude.
func Dequantize(pixel uint8, reference float64) float64 {
	return float64(pixel) / 255 * reference
}

// Encode renders s. Every frame must have the full frame size; analyse with
// spectral.EdgePad or spectral.EdgeDrop.
func Encode(s *spectral.Spectrogram) (*Image, error) {
	if s == nil || s.Len() == 0 {
		return nil, spectral.ErrEmptySpectrogram
	}
	if !s.Uniform() {
		return nil, ErrNonUniformFrames
	}

	ref := s.ReferenceLevel()
	height := s.BinCount()
	img := image.NewGray(image.Rect(0, 0, s.Len(), height))
	for x := 0; x < s.Len(); x++ {
		for bin, a := range s.Frame(x).Amplitude() {
			img.SetGray(x, height-bin-1, color.Gray{Y: Quantize(a, ref)})
		}
	}
	return &Image{Pixels: img, Metadata: describe(s)}, nil
}

// Decode rebuilds a spectrogram from im. Unknown metadata is taken from
// defaults. Every frame gets an all-zero phase spectrum.
func Decode(im *Image, defaults Metadata) (*spectral.Spectrogram, error) {
	if im == nil || im.Pixels == nil {
		return nil, fmt.Errorf("%w: no pixels", ErrInvalidImage)
	}
	m := im.Metadata.Merge(defaults)
	if err := m.required(); err != nil {
		return nil, err
	}
	k, err := m.Kernel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	width, height := im.Width(), im.Height()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImage, width, height)
	}
	size := m.FrameSize
	if size == 0 {
		size = 2 * height
	}
	if spectral.BinCount(size) != height {
		return nil, fmt.Errorf("%w: %d rows cannot hold frames of %d samples", ErrInvalidImage, height, size)
	}
	overlap, err := m.overlap(size)
	if err != nil {
		return nil, err
	}

	meta := spectral.Metadata{
		SampleRate:  m.SamplingFrequency,
		SampleWidth: m.sampleWidth(),
		Window:      k,
	}
	b := im.Pixels.Bounds()
	frames := make([]spectral.Frame, width)
	for x := range frames {
		amp := make([]float64, height)
		for bin := range amp {
			amp[bin] = Dequantize(im.Pixels.GrayAt(b.Min.X+x, b.Min.Y+height-bin-1).Y, m.ReferenceLevel)
		}
		f, err := spectral.NewFrame(size, amp, make([]float64, height), m.ReferenceLevel, meta)
		if err != nil {
			return nil, err
		}
		frames[x] = f
	}

	return spectral.NewSpectrogram(frames, spectral.Geometry{
		FrameSize:    size,
		Overlap:      overlap,
		Edge:         spectral.EdgePad,
		SourceLength: m.SourceLength,
	})
}
