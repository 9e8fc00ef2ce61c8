package spectral

import (
	"fmt"
	"runtime"

	"github.com/neurlang/spectro/logging"
	"github.com/neurlang/spectro/window"
)

// DefaultFrameSize is the analysis frame length used when none is configured.
const DefaultFrameSize = 512

// EdgePolicy selects what happens to a trailing slice shorter than the frame size.
type EdgePolicy int

const (
	// EdgePad zero-pads trailing slices to the frame size, keeping every
	// frame the same shape.
	EdgePad EdgePolicy = iota
	// EdgeDrop keeps only full-size slices.
	EdgeDrop
	// EdgeRetain keeps trailing slices at their shortened length. Slices of
	// fewer than two samples are dropped.
	EdgeRetain
)

func (e EdgePolicy) String() string {
	switch e {
	case EdgePad:
		return "pad"
	case EdgeDrop:
		return "drop"
	case EdgeRetain:
		return "retain"
	}
	return fmt.Sprintf("EdgePolicy(%d)", int(e))
}

// ParseEdgePolicy parses "pad", "drop" or "retain".
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	for _, e := range []EdgePolicy{EdgePad, EdgeDrop, EdgeRetain} {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown edge policy %q", ErrInvalidConfig, s)
}

// Config configures analysis.
type Config struct {
	// FrameSize is the number of samples per analysis frame.
	FrameSize int
	// Overlap is the number of samples consecutive frames share.
	Overlap int
	Window  window.Kernel
	Edge    EdgePolicy
	// Phase records phase spectra. Without them resynthesis needs a PhasePolicy fallback.
	Phase bool
	// Workers bounds concurrent frame analysis. Zero means runtime.NumCPU().
	Workers int
	// Cache memoizes window factors across frames. Optional.
	Cache  *window.Cache
	Logger logging.Logger
}

// DefaultConfig returns a Hann, 512-sample, half-overlap configuration that
// records phase.
func DefaultConfig() Config {
	return Config{
		FrameSize: DefaultFrameSize,
		Overlap:   DefaultFrameSize / 2,
		Window:    window.MustNew(window.Hann),
		Edge:      EdgePad,
		Phase:     true,
		Cache:     window.NewCache(),
	}
}

// Hop returns FrameSize - Overlap.
func (c Config) Hop() int {
	return c.FrameSize - c.Overlap
}

// Validate checks the frame geometry and window.
func (c Config) Validate() error {
	if c.FrameSize < 2 {
		return fmt.Errorf("%w: frame size %d must be at least 2", ErrInvalidConfig, c.FrameSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.FrameSize {
		return fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidConfig, c.Overlap, c.FrameSize)
	}
	if c.Edge < EdgePad || c.Edge > EdgeRetain {
		return fmt.Errorf("%w: edge policy %d", ErrInvalidConfig, int(c.Edge))
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	return nil
}

func (c Config) workers(jobs int) int {
	n := c.Workers
	if n == 0 {
		n = runtime.NumCPU()
	}
	return max(1, min(n, jobs))
}

func (c Config) factorer() window.Factorer {
	if c.Cache != nil {
		return c.Cache.For(c.Window)
	}
	return c.Window
}
