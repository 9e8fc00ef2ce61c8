package pcm

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/spf13/afero"

	"github.com/neurlang/spectro/wave"
)

// ReadFlac loads the first channel of a FLAC file.
func ReadFlac(fs afero.Fs, path string) (wave.Buffer, error) {
	f, err := fs.Open(path)
	if err != nil {
		return wave.Buffer{}, err
	}
	defer f.Close()
	return DecodeFlac(f, path)
}

// DecodeFlac decodes a FLAC stream. Bit depths that are not a whole number
// of bytes are widened to the next byte. name is used in errors.
func DecodeFlac(r io.Reader, name string) (wave.Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return wave.Buffer{}, NewMalformedSourceError(name, "not a FLAC stream", err)
	}
	defer stream.Close()

	bits := int(stream.Info.BitsPerSample)
	width := (bits + 7) / 8
	if bits == 0 || width > wave.MaxWidth {
		return wave.Buffer{}, NewMalformedSourceError(name, fmt.Sprintf("unsupported bit depth %d", bits), nil)
	}
	shift := 8*width - bits

	samples := make([]int, 0, stream.Info.NSamples)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return wave.Buffer{}, NewMalformedSourceError(name, "decode frame", err)
		}
		for _, s := range frame.Subframes[0].Samples {
			samples = append(samples, int(s)<<shift)
		}
	}

	b, err := wave.New(samples, int(stream.Info.SampleRate), width)
	if err != nil {
		return wave.Buffer{}, NewMalformedSourceError(name, "invalid format", err)
	}
	return b, nil
}
