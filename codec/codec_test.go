package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/spf13/afero"

	"github.com/neurlang/spectro/spectral"
	"github.com/neurlang/spectro/wave"
	"github.com/neurlang/spectro/window"
)

func sineSpectrogram(t *testing.T, edge spectral.EdgePolicy) *spectral.Spectrogram {
	t.Helper()
	buf, err := wave.Sine(440, 0.8, 8000, 2, 4000)
	if err != nil {
		t.Fatal(err)
	}
	cfg := spectral.DefaultConfig()
	cfg.FrameSize = 256
	cfg.Overlap = 128
	cfg.Edge = edge
	s, err := spectral.Analyze(buf, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		amp  float64
		want uint8
	}{
		{0, 0},
		{-5, 0},
		{32768, 255},
		{70000, 255},
		{32768.0 / 255, 1},
		{32768.0 * 100 / 255, 100},
	}
	for _, tt := range tests {
		if got := Quantize(tt.amp, 32768); got != tt.want {
			t.Errorf("Quantize(%v) = %d, want %d", tt.amp, got, tt.want)
		}
	}
	for p := 0; p < 256; p++ {
		if got := Quantize(Dequantize(uint8(p), 32768), 32768); got != uint8(p) {
			t.Fatalf("pixel %d round trips to %d", p, got)
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	s := sineSpectrogram(t, spectral.EdgePad)
	im, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	if im.Width() != s.Len() || im.Height() != 128 {
		t.Fatalf("image %dx%d, want %dx128", im.Width(), im.Height(), s.Len())
	}

	f := s.Frame(3)
	peak := f.Peak()
	if got, want := im.Pixels.GrayAt(3, 128-peak.Bin-1).Y, Quantize(peak.Amplitude, s.ReferenceLevel()); got != want {
		t.Fatalf("peak pixel = %d, want %d", got, want)
	}

	m := im.Metadata
	if m.SamplingFrequency != 8000 || m.Window != "hann" || m.ReferenceLevel != 32768 {
		t.Fatalf("metadata = %+v", m)
	}
	if m.FrameSize != 256 || m.Hop != 128 || m.SourceLength != 4000 || m.SampleWidth != 2 {
		t.Fatalf("geometry = %+v", m)
	}
}

func TestRoundTripWithinOneStep(t *testing.T) {
	s := sineSpectrogram(t, spectral.EdgePad)
	im, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Decode(im, Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != s.Len() || d.Geometry() != s.Geometry() {
		t.Fatalf("geometry %+v, want %+v", d.Geometry(), s.Geometry())
	}

	step := s.ReferenceLevel() / 255
	for i := 0; i < s.Len(); i++ {
		a, b := s.Frame(i).Amplitude(), d.Frame(i).Amplitude()
		for k := range a {
			if math.Abs(a[k]-b[k]) > step {
				t.Fatalf("frame %d bin %d: %v decoded as %v", i, k, a[k], b[k])
			}
		}
		for k, p := range d.Frame(i).Phase() {
			if p != 0 {
				t.Fatalf("frame %d phase[%d] = %v", i, k, p)
			}
		}
	}
}

func TestExactMultiplesSurvive(t *testing.T) {
	ref := 32768.0
	meta := spectral.Metadata{SampleRate: 8000, SampleWidth: 2, Window: window.MustNew(window.Uniform)}
	amp := []float64{0, ref / 255, 17 * ref / 255, ref}
	f, err := spectral.NewFrame(8, amp, nil, ref, meta)
	if err != nil {
		t.Fatal(err)
	}
	s, err := spectral.NewSpectrogram([]spectral.Frame{f, f}, spectral.Geometry{FrameSize: 8, Overlap: 4})
	if err != nil {
		t.Fatal(err)
	}
	im, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Decode(im, Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	got := d.Frame(1).Amplitude()
	for k := range amp {
		if math.Abs(got[k]-amp[k]) > 1e-9 {
			t.Fatalf("bin %d = %v, want %v", k, got[k], amp[k])
		}
	}
	want := []float64{amp[0], amp[1] * math.Sqrt2, amp[2] * math.Sqrt2, amp[3] * math.Sqrt2}
	for k, r := range d.Frame(1).RMS() {
		if math.Abs(r-want[k]) > 1e-9 {
			t.Fatalf("rms[%d] = %v, want %v", k, r, want[k])
		}
	}
}

func TestZeroOverlapSurvives(t *testing.T) {
	buf, err := wave.Sine(440, 0.8, 8000, 2, 4096)
	if err != nil {
		t.Fatal(err)
	}
	cfg := spectral.DefaultConfig()
	cfg.FrameSize = 256
	cfg.Overlap = 0
	cfg.Window = window.MustNew(window.Uniform)
	s, err := spectral.Analyze(buf, cfg)
	if err != nil {
		t.Fatal(err)
	}

	fs := afero.NewMemMapFs()
	im, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	if im.Metadata.Hop != 256 {
		t.Fatalf("hop = %d, want 256", im.Metadata.Hop)
	}
	if err := Save(fs, "/flat.png", im); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(fs, "/flat.png")
	if err != nil {
		t.Fatal(err)
	}
	d, err := Decode(loaded, Metadata{Hop: 128})
	if err != nil {
		t.Fatal(err)
	}
	if g := d.Geometry(); g.Overlap != 0 || d.SampleSpan() != 4096 {
		t.Fatalf("geometry %+v span %d, want overlap 0 span 4096", g, d.SampleSpan())
	}
	out, err := spectral.Resynthesize(d, spectral.SynthOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 4096 {
		t.Fatalf("resynthesized %d samples, want 4096", out.Len())
	}

	plane, err := HalfPlane(s)
	if err != nil {
		t.Fatal(err)
	}
	h, err := FromHalfPlane(plane, im.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if h.Geometry().Overlap != 0 {
		t.Fatalf("half plane overlap = %d", h.Geometry().Overlap)
	}
}

func TestDecodeRejectsBadHop(t *testing.T) {
	im, err := Encode(sineSpectrogram(t, spectral.EdgePad))
	if err != nil {
		t.Fatal(err)
	}
	im.Metadata.Hop = 257
	if _, err := Decode(im, Metadata{}); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestDecodeMissingMetadata(t *testing.T) {
	im, err := Encode(sineSpectrogram(t, spectral.EdgePad))
	if err != nil {
		t.Fatal(err)
	}

	bare := &Image{Pixels: im.Pixels}
	if _, err := Decode(bare, Metadata{}); !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("err = %v, want ErrMissingMetadata", err)
	}
	if _, err := Decode(bare, Metadata{SamplingFrequency: 8000, Window: "hann"}); !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("no reference: err = %v", err)
	}

	d, err := Decode(bare, Metadata{SamplingFrequency: 8000, Window: "hann", ReferenceLevel: 32768})
	if err != nil {
		t.Fatal(err)
	}
	g := d.Geometry()
	if g.FrameSize != 256 || g.Overlap != 128 || g.SourceLength != 0 {
		t.Fatalf("geometry = %+v", g)
	}
	if d.Metadata().SampleWidth != 2 {
		t.Fatalf("sample width = %d", d.Metadata().SampleWidth)
	}
}

func TestDecodeRejectsBadGeometry(t *testing.T) {
	im, err := Encode(sineSpectrogram(t, spectral.EdgePad))
	if err != nil {
		t.Fatal(err)
	}
	im.Metadata.FrameSize = 512
	if _, err := Decode(im, Metadata{}); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestEncodeRejectsShortFrames(t *testing.T) {
	if _, err := Encode(sineSpectrogram(t, spectral.EdgeRetain)); !errors.Is(err, ErrNonUniformFrames) {
		t.Fatalf("err = %v, want ErrNonUniformFrames", err)
	}
}

func TestSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	im, err := Encode(sineSpectrogram(t, spectral.EdgePad))
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(fs, "/out/tone.png", im); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fs, "/out/tone.png.yaml"); !ok {
		t.Fatal("sidecar not written")
	}

	got, err := Load(fs, "/out/tone.png")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata != im.Metadata {
		t.Fatalf("metadata = %+v, want %+v", got.Metadata, im.Metadata)
	}
	for y := 0; y < im.Height(); y++ {
		for x := 0; x < im.Width(); x++ {
			if got.Pixels.GrayAt(x, y) != im.Pixels.GrayAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}

	if err := fs.Remove("/out/tone.png.yaml"); err != nil {
		t.Fatal(err)
	}
	bare, err := Load(fs, "/out/tone.png")
	if err != nil {
		t.Fatal(err)
	}
	if bare.Metadata != (Metadata{}) {
		t.Fatalf("metadata without sidecar = %+v", bare.Metadata)
	}
}

func TestDecodedImageResynthesizes(t *testing.T) {
	s := sineSpectrogram(t, spectral.EdgePad)
	im, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Decode(im, Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := spectral.Resynthesize(d, spectral.SynthOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 4000 || out.SampleRate() != 8000 {
		t.Fatalf("len %d rate %d", out.Len(), out.SampleRate())
	}
}

func TestHalfPlane(t *testing.T) {
	s := sineSpectrogram(t, spectral.EdgePad)
	plane, err := HalfPlane(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(plane) != s.Len()*128 {
		t.Fatalf("plane has %d values", len(plane))
	}

	im, _ := Encode(s)
	d, err := FromHalfPlane(plane, im.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < s.Len(); i++ {
		a, b := s.Frame(i).Amplitude(), d.Frame(i).Amplitude()
		for k := range a {
			// half precision keeps 11 significant bits
			if math.Abs(a[k]-b[k]) > a[k]/1024+2e-3 {
				t.Fatalf("frame %d bin %d: %v decoded as %v", i, k, a[k], b[k])
			}
		}
	}

	if _, err := FromHalfPlane(plane[:len(plane)-1], im.Metadata); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}
