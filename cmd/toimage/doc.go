// Command toimage renders an audio file (WAV or FLAC) as a grayscale
// spectrogram image (PNG).
//
// Each column of the image is one analysis frame and each row one frequency
// bin, low frequencies at the bottom. Pixel intensity is the bin amplitude
// relative to the full scale of the source. Analysis settings and the source
// format are written to a <png_file>.yaml sidecar so towav can invert the
// image without extra flags.
//
// Usage:
//
//	toimage [flags] <audio_file> [png_file]
//
// The output defaults to <audio_file>.png.
package main
