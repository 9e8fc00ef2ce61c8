// Command towav converts spectrogram images (PNG) back to audio files (WAV).
//
// Images carry amplitude only, so phase is reconstructed: either assumed zero
// (the default, fast but audibly rough) or estimated with Griffin-Lim
// iterations (--phase griffinlim). Geometry and format come from the
// <png_file>.yaml sidecar written by toimage. Without a sidecar a warning is
// logged and only settings given by flags, SPECTRO_* variables or --config
// are used; decoding fails when the sampling frequency, window or reference
// level is still unknown.
//
// Usage:
//
//	towav [flags] <png_file> [wav_file]
//
// The output defaults to <png_file>.wav.
package main
