// Package codec maps a spectrogram onto an 8-bit grayscale raster and back.
//
// Each frame becomes one column, each frequency bin one row with low
// frequencies at the bottom. A pixel holds round(255 * amplitude / reference)
// clamped to [0, 255]. Metadata travelling with the image makes decoding
// self-describing.
//
// The round trip is lossy: amplitudes are quantised to 1/255 of the
// reference level and phase is dropped. Decoded frames carry an all-zero
// phase spectrum, so a waveform resynthesized from a decoded image sounds
// noticeably different from the source. Use spectral.PhaseGriffinLim for a
// better estimate.
package codec
