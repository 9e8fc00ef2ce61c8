package spectral

import (
	"context"
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"
	"github.com/r9y9/gossp/stft"
	"github.com/sourcegraph/conc/pool"

	"github.com/neurlang/spectro/logging"
	"github.com/neurlang/spectro/window"
)

// griffinLim estimates the missing phase spectra of s by alternating between
// overlap-add and re-analysis, keeping the recorded magnitudes each round.
// Recorded phases seed the estimate; missing ones start at zero.
func griffinLim(ctx context.Context, s *Spectrogram, factors window.Factorer, iterations, workers int, log logging.Logger) ([]float64, error) {
	if !s.Uniform() {
		return nil, fmt.Errorf("%w: phase estimation needs frames of equal length", ErrInconsistentFrames)
	}
	n := s.geom.FrameSize
	w, err := factors.Factors(n)
	if err != nil {
		return nil, err
	}
	plan := stft.New(s.geom.Hop(), n)
	plan.Window = w

	frames := make([]Frame, s.Len())
	for i, f := range s.frames {
		frames[i] = f
		if f.phase == nil {
			frames[i].phase = make([]float64, len(f.amplitude))
		}
	}
	est := &Spectrogram{frames: frames, geom: s.geom, meta: s.meta, reference: s.reference}

	gain := s.meta.Window.Gain()
	for iter := 0; iter < iterations; iter++ {
		x, err := overlapAdd(ctx, est, factors, workers)
		if err != nil {
			return nil, err
		}

		// x spans exactly the analysed frames, so the plan yields one
		// spectrum per frame.
		spec := plan.STFT(x)
		p := pool.New().WithContext(ctx).WithMaxGoroutines(workers).WithCancelOnError()
		for i := range frames {
			p.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				bins := len(frames[i].amplitude)
				if i < len(spec) {
					frames[i].phase = phases(spec[i], bins)
				} else {
					frames[i].phase = reanalyse(plan, x, i, gain, bins)
				}
				return nil
			})
		}
		if err := p.Wait(); err != nil {
			return nil, err
		}
	}
	log.Debug("griffin-lim finished", logging.Fields{"iterations": iterations, "frames": len(frames)})

	return overlapAdd(ctx, est, factors, workers)
}

func phases(coeffs []complex128, bins int) []float64 {
	phase := make([]float64, bins)
	for k := range phase {
		phase[k] = cmplx.Phase(coeffs[k])
	}
	return phase
}

// reanalyse returns the phase spectrum of frame i of x under plan, zero
// padding past the end of x.
func reanalyse(plan *stft.STFT, x []float64, i int, gain float64, bins int) []float64 {
	n := len(plan.Window)
	start := i * plan.FrameShift
	frame := make([]float64, n)
	if start < len(x) {
		copy(frame, x[start:min(start+n, len(x))])
	}
	vecmath.MulBlockInPlace(frame, plan.Window)
	vecmath.ScaleBlock(frame, frame, 1/gain)

	return phases(fft.FFTReal(frame), bins)
}
