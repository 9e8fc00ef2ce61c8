package spectral

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/neurlang/spectro/logging"
	"github.com/neurlang/spectro/wave"
)

// Geometry describes how frames were cut from the source waveform.
type Geometry struct {
	FrameSize int
	Overlap   int
	Edge      EdgePolicy
	// SourceLength is the analysed waveform length in samples, or 0 if unknown.
	SourceLength int
}

// Hop returns FrameSize - Overlap.
func (g Geometry) Hop() int { return g.FrameSize - g.Overlap }

// Spectrogram is an ordered sequence of frames sharing one geometry and one
// set of metadata.
type Spectrogram struct {
	frames    []Frame
	geom      Geometry
	meta      Metadata
	reference float64
}

// NewSpectrogram assembles frames, checking that they agree with each other
// and with g.
func NewSpectrogram(frames []Frame, g Geometry) (*Spectrogram, error) {
	if len(frames) == 0 {
		return nil, ErrEmptySpectrogram
	}
	if g.FrameSize < 2 || g.Overlap < 0 || g.Overlap >= g.FrameSize {
		return nil, fmt.Errorf("%w: frame size %d, overlap %d", ErrInvalidConfig, g.FrameSize, g.Overlap)
	}

	first := frames[0]
	for i, f := range frames {
		if !f.meta.equal(first.meta) || f.reference != first.reference {
			return nil, fmt.Errorf("%w: frame %d metadata differs from frame 0", ErrInconsistentFrames, i)
		}
		switch {
		case f.length > g.FrameSize:
			return nil, fmt.Errorf("%w: frame %d has %d samples, frame size is %d", ErrInconsistentFrames, i, f.length, g.FrameSize)
		case f.length < g.FrameSize && g.Edge != EdgeRetain:
			return nil, fmt.Errorf("%w: frame %d has %d samples under %s edge policy", ErrInconsistentFrames, i, f.length, g.Edge)
		}
	}

	return &Spectrogram{
		frames:    append([]Frame(nil), frames...),
		geom:      g,
		meta:      first.meta,
		reference: first.reference,
	}, nil
}

// Len returns the frame count.
func (s *Spectrogram) Len() int { return len(s.frames) }

// Frame returns frame i.
func (s *Spectrogram) Frame(i int) Frame { return s.frames[i] }

// Frames returns the frames in order.
func (s *Spectrogram) Frames() []Frame { return append([]Frame(nil), s.frames...) }

// Geometry returns the framing parameters.
func (s *Spectrogram) Geometry() Geometry { return s.geom }

// Metadata returns the metadata shared by every frame.
func (s *Spectrogram) Metadata() Metadata { return s.meta }

// ReferenceLevel returns the reference level shared by every frame.
func (s *Spectrogram) ReferenceLevel() float64 { return s.reference }

// BinCount returns the bin count of a full-size frame.
func (s *Spectrogram) BinCount() int { return BinCount(s.geom.FrameSize) }

// Uniform reports whether every frame has FrameSize samples.
func (s *Spectrogram) Uniform() bool {
	for _, f := range s.frames {
		if f.length != s.geom.FrameSize {
			return false
		}
	}
	return true
}

// SampleSpan returns FrameSize + (frames-1) * Hop.
func (s *Spectrogram) SampleSpan() int {
	return s.geom.FrameSize + (len(s.frames)-1)*s.geom.Hop()
}

// Analyze runs AnalyzeContext with a background context.
func Analyze(buf wave.Buffer, cfg Config) (*Spectrogram, error) {
	return AnalyzeContext(context.Background(), buf, cfg)
}

type slice struct {
	start, end int
}

// frameSlices lists the [start, end) source ranges for an n-sample buffer.
func frameSlices(n int, cfg Config, log logging.Logger) []slice {
	hop := cfg.Hop()
	var out []slice
	for start := 0; start < n; start += hop {
		end := start + cfg.FrameSize
		if end > n {
			switch cfg.Edge {
			case EdgeDrop:
				return out
			case EdgeRetain:
				if n-start < 2 {
					log.Debug("dropping trailing slice", logging.Fields{"start": start, "samples": n - start})
					return out
				}
			}
		}
		out = append(out, slice{start: start, end: end})
	}
	return out
}

// AnalyzeContext frames buf according to cfg and analyses every frame
// concurrently. Frames are stored by index, so the result order never
// depends on scheduling. ctx is checked before each frame.
func AnalyzeContext(ctx context.Context, buf wave.Buffer, cfg Config) (*Spectrogram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %v", ErrEmptySpectrogram, wave.ErrEmpty)
	}
	log := logging.OrNoOp(cfg.Logger)

	samples := buf.Float64()
	slices := frameSlices(len(samples), cfg, log)
	if len(slices) == 0 {
		return nil, fmt.Errorf("%w: %d samples is shorter than frame size %d", ErrEmptySpectrogram, len(samples), cfg.FrameSize)
	}

	meta := Metadata{
		SampleRate:  buf.SampleRate(),
		SampleWidth: buf.SampleWidth(),
		Window:      cfg.Window,
	}
	factors := cfg.factorer()
	frames := make([]Frame, len(slices))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(cfg.workers(len(slices))).WithCancelOnError()
	for i, sl := range slices {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := min(sl.end, len(samples))
			x := samples[sl.start:end]
			if cfg.Edge == EdgePad && end-sl.start < cfg.FrameSize {
				padded := make([]float64, cfg.FrameSize)
				copy(padded, x)
				x = padded
			}
			f, err := analyze(x, factors, meta, cfg.Phase)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = f
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	log.Debug("spectrogram analysed", logging.Fields{
		"frames":     len(frames),
		"frame_size": cfg.FrameSize,
		"overlap":    cfg.Overlap,
		"window":     cfg.Window.Name,
		"edge":       cfg.Edge.String(),
	})

	return NewSpectrogram(frames, Geometry{
		FrameSize:    cfg.FrameSize,
		Overlap:      cfg.Overlap,
		Edge:         cfg.Edge,
		SourceLength: buf.Len(),
	})
}
