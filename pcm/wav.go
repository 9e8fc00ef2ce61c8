package pcm

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"

	"github.com/neurlang/spectro/wave"
)

const formatPCM = 1

// ReadWav loads the first channel of a WAV file.
func ReadWav(fs afero.Fs, path string) (wave.Buffer, error) {
	f, err := fs.Open(path)
	if err != nil {
		return wave.Buffer{}, err
	}
	defer f.Close()
	return DecodeWav(f, path)
}

// DecodeWav decodes an integer PCM WAV stream. name is used in errors.
func DecodeWav(r io.ReadSeeker, name string) (wave.Buffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return wave.Buffer{}, NewMalformedSourceError(name, "not a WAV file", d.Err())
	}
	if d.WavAudioFormat != formatPCM {
		return wave.Buffer{}, NewMalformedSourceError(name, fmt.Sprintf("audio format %d is not integer PCM", d.WavAudioFormat), nil)
	}
	bits := int(d.BitDepth)
	if bits%8 != 0 || bits/8 > wave.MaxWidth {
		return wave.Buffer{}, NewMalformedSourceError(name, fmt.Sprintf("unsupported bit depth %d", bits), nil)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return wave.Buffer{}, NewMalformedSourceError(name, "decode samples", err)
	}

	width := bits / 8
	channels := max(1, int(d.NumChans))
	samples := make([]int, len(buf.Data)/channels)
	for i := range samples {
		v := buf.Data[i*channels]
		// 8-bit WAV is unsigned
		if width == 1 {
			v -= 128
		}
		samples[i] = v
	}

	b, err := wave.New(samples, int(d.SampleRate), width)
	if err != nil {
		return wave.Buffer{}, NewMalformedSourceError(name, "invalid format", err)
	}
	return b, nil
}

// WriteWav stores b as a mono integer PCM WAV file.
func WriteWav(fs afero.Fs, path string, b wave.Buffer) error {
	if b.Len() == 0 {
		return ErrEmptyBuffer
	}
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeWav(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeWav writes b to w as a mono integer PCM WAV stream.
func EncodeWav(w io.WriteSeeker, b wave.Buffer) error {
	if b.Len() == 0 {
		return ErrEmptyBuffer
	}
	data := b.Samples()
	if b.SampleWidth() == 1 {
		for i := range data {
			data[i] += 128
		}
	}

	e := wav.NewEncoder(w, b.SampleRate(), b.BitDepth(), 1, formatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  b.SampleRate(),
		},
		Data:           data,
		SourceBitDepth: b.BitDepth(),
	}
	if err := e.Write(buf); err != nil {
		e.Close()
		return err
	}
	return e.Close()
}
