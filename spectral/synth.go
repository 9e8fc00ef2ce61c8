package spectral

import (
	"context"
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"
	"github.com/sourcegraph/conc/pool"

	"github.com/neurlang/spectro/logging"
	"github.com/neurlang/spectro/wave"
	"github.com/neurlang/spectro/window"
)

// PhasePolicy selects how Resynthesize treats frames without a phase spectrum.
type PhasePolicy int

const (
	// PhaseRequire fails with ErrMissingPhase.
	PhaseRequire PhasePolicy = iota
	// PhaseZero assumes zero phase and keeps the magnitude of the inverse
	// transform. The result is audibly different from the source.
	PhaseZero
	// PhaseGriffinLim estimates phase iteratively from the magnitudes,
	// starting from whatever phase the frames carry.
	PhaseGriffinLim
)

func (p PhasePolicy) String() string {
	switch p {
	case PhaseRequire:
		return "require"
	case PhaseZero:
		return "zero"
	case PhaseGriffinLim:
		return "griffinlim"
	}
	return fmt.Sprintf("PhasePolicy(%d)", int(p))
}

// ParsePhasePolicy parses "require", "zero" or "griffinlim".
func ParsePhasePolicy(s string) (PhasePolicy, error) {
	for _, p := range []PhasePolicy{PhaseRequire, PhaseZero, PhaseGriffinLim} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown phase policy %q", ErrInvalidConfig, s)
}

// DefaultIterations is the Griffin-Lim iteration count used when none is set.
const DefaultIterations = 32

// SynthOptions configures Resynthesize. The zero value requires phase.
type SynthOptions struct {
	Phase PhasePolicy
	// Iterations bounds Griffin-Lim. Zero means DefaultIterations.
	Iterations int
	// Workers bounds concurrent inverse transforms. Zero means runtime.NumCPU().
	Workers int
	Cache   *window.Cache
	Logger  logging.Logger
}

func (o SynthOptions) iterations() int {
	if o.Iterations <= 0 {
		return DefaultIterations
	}
	return o.Iterations
}

// Resynthesize runs ResynthesizeContext with a background context.
func Resynthesize(s *Spectrogram, opts SynthOptions) (wave.Buffer, error) {
	return ResynthesizeContext(context.Background(), s, opts)
}

// ResynthesizeContext inverts every frame and overlap-adds the results into a
// waveform of the source length, or of SampleSpan when the source length is
// unknown.
func ResynthesizeContext(ctx context.Context, s *Spectrogram, opts SynthOptions) (wave.Buffer, error) {
	if s == nil || s.Len() == 0 {
		return wave.Buffer{}, ErrEmptySpectrogram
	}
	log := logging.OrNoOp(opts.Logger)

	missing := 0
	for _, f := range s.frames {
		if !f.HasPhase() {
			missing++
		}
	}

	cfg := Config{
		FrameSize: s.geom.FrameSize,
		Overlap:   s.geom.Overlap,
		Window:    s.meta.Window,
		Edge:      s.geom.Edge,
		Workers:   opts.Workers,
		Cache:     opts.Cache,
	}
	if err := cfg.Validate(); err != nil {
		return wave.Buffer{}, err
	}
	factors := cfg.factorer()

	var out []float64
	var err error
	switch {
	case opts.Phase == PhaseGriffinLim:
		out, err = griffinLim(ctx, s, factors, opts.iterations(), cfg.workers(s.Len()), log)
	case opts.Phase != PhaseRequire && opts.Phase != PhaseZero:
		return wave.Buffer{}, fmt.Errorf("%w: phase policy %d", ErrInvalidConfig, int(opts.Phase))
	case missing == 0 || opts.Phase == PhaseZero:
		if missing > 0 {
			log.Warn("resynthesizing without phase", logging.Fields{"frames": missing})
		}
		out, err = overlapAdd(ctx, s, factors, cfg.workers(s.Len()))
	default:
		return wave.Buffer{}, fmt.Errorf("%w: %d of %d frames", ErrMissingPhase, missing, s.Len())
	}
	if err != nil {
		return wave.Buffer{}, err
	}

	if n := s.geom.SourceLength; n > 0 && n < len(out) {
		out = out[:n]
	}
	return wave.FromFloat(out, s.meta.SampleRate, s.meta.SampleWidth)
}

// Invert returns the time-domain samples of one frame, window included. A
// frame without phase is inverted at zero phase and rectified.
func Invert(f Frame) []float64 {
	n := f.length
	spectrum := make([]complex128, n)
	for k, a := range f.amplitude {
		var phi float64
		if f.phase != nil {
			phi = f.phase[k]
		}
		if k == 0 {
			spectrum[0] = cmplx.Rect(a*float64(n), phi)
			continue
		}
		c := cmplx.Rect(a*float64(n)/2, phi)
		spectrum[k] = c
		spectrum[n-k] = cmplx.Conj(c)
	}

	y := fft.IFFT(spectrum)
	out := make([]float64, n)
	gain := f.meta.Window.Gain()
	if f.phase == nil {
		for i, c := range y {
			out[i] = cmplx.Abs(c) * gain
		}
		return out
	}
	for i, c := range y {
		out[i] = real(c) * gain
	}
	return out
}

// overlapAdd inverts frames concurrently, then accumulates them in frame order
// on the calling goroutine.
func overlapAdd(ctx context.Context, s *Spectrogram, factors window.Factorer, workers int) ([]float64, error) {
	blocks := make([][]float64, s.Len())
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers).WithCancelOnError()
	for i, f := range s.frames {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blocks[i] = Invert(f)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return accumulate(blocks, s.geom.Hop(), s.SampleSpan(), factors)
}

// accumulate sums w*block at hop offsets and divides by the summed squared
// window. Samples no window reaches are left at zero.
func accumulate(blocks [][]float64, hop, span int, factors window.Factorer) ([]float64, error) {
	out := make([]float64, span)
	norm := make([]float64, span)
	for i, block := range blocks {
		w, err := factors.Factors(len(block))
		if err != nil {
			return nil, err
		}
		start := i * hop
		end := min(start+len(block), span)
		n := end - start

		weighted := make([]float64, n)
		vecmath.MulBlock(weighted, block[:n], w[:n])
		vecmath.AddBlockInPlace(out[start:end], weighted)

		vecmath.MulBlock(weighted, w[:n], w[:n])
		vecmath.AddBlockInPlace(norm[start:end], weighted)
	}

	var peak float64
	for _, v := range norm {
		peak = max(peak, v)
	}
	floor := peak * normFloor
	for i, v := range norm {
		if v > floor {
			out[i] /= v
		} else {
			out[i] = 0
		}
	}
	return out, nil
}

// normFloor is the fraction of the peak window energy below which a sample is
// treated as unreachable.
const normFloor = 1e-10
