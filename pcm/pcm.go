package pcm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/neurlang/spectro/wave"
)

// Read loads a WAV or FLAC file, chosen by extension.
func Read(fs afero.Fs, path string) (wave.Buffer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return ReadWav(fs, path)
	case ".flac":
		return ReadFlac(fs, path)
	}
	return wave.Buffer{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Write stores b at path. Only WAV output is supported.
func Write(fs afero.Fs, path string, b wave.Buffer) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return WriteWav(fs, path, b)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}
