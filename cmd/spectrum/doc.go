// Command spectrum compares the window kernels on one signal.
//
// The signal is an audio file (WAV or FLAC) or, without a file, a synthetic
// sine. For every kernel it prints the strongest bin of the loudest frame and
// its level in dB relative to full scale, which shows how the kernels trade
// frequency resolution against amplitude accuracy.
//
// Usage:
//
//	spectrum [flags] [audio_file]
//
// Examples:
//
//	spectrum --freq 220 --frame-size 1024 --overlap 512
//	spectrum recording.wav
package main
