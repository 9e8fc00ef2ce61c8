package spectral

import "errors"

var (
	// ErrInvalidWindow is returned when a kernel does not satisfy the window contract.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrInvalidConfig is returned for inconsistent frame geometry or options.
	ErrInvalidConfig = errors.New("invalid spectral config")
	// ErrMissingPhase is returned by Resynthesize when a frame has no phase
	// spectrum and PhaseRequire is in effect.
	ErrMissingPhase = errors.New("missing phase spectrum")
	// ErrEmptySpectrogram is returned for a spectrogram without frames.
	ErrEmptySpectrogram = errors.New("empty spectrogram")
	// ErrInconsistentFrames is returned when frames disagree on size or metadata.
	ErrInconsistentFrames = errors.New("inconsistent frames")
)
