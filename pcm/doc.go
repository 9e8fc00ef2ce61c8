// Package pcm reads and writes integer PCM files for the spectral engine.
//
// WAV files are read and written through go-audio/wav, FLAC files are read
// through mewkiz/flac. Only the first channel of a multi-channel source is
// kept. All file access goes through an afero.Fs.
package pcm
