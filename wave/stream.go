package wave

import (
	"fmt"

	"github.com/faiface/beep"
)

// Format describes b as a mono beep stream.
func (b Buffer) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(b.sampleRate),
		NumChannels: 1,
		Precision:   b.width,
	}
}

// Streamer plays the normalized samples of b on both beep channels.
func (b Buffer) Streamer() beep.Streamer {
	data := b.Normalized()
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= len(data) {
			return 0, false
		}
		for n < len(samples) && pos < len(data) {
			samples[n][0] = data[pos]
			samples[n][1] = data[pos]
			n++
			pos++
		}
		return n, true
	})
}

// FromStreamer drains the left channel of s into a buffer. Samples are
// expected in [-1, 1] and are scaled to sampleWidth.
func FromStreamer(s beep.Streamer, sampleRate, sampleWidth int) (Buffer, error) {
	if err := validateFormat(sampleRate, sampleWidth); err != nil {
		return Buffer{}, err
	}

	var out []float64
	chunk := make([][2]float64, 512)
	for {
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			out = append(out, chunk[i][0])
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return Buffer{}, fmt.Errorf("stream: %w", err)
	}

	scale := float64(int(1) << (8*sampleWidth - 1))
	for i := range out {
		out[i] *= scale
	}
	return FromFloat(out, sampleRate, sampleWidth)
}

// Resample converts b to sampleRate using beep's interpolating resampler.
// quality ranges from 1 (linear) to 64.
func Resample(b Buffer, sampleRate, quality int) (Buffer, error) {
	if err := validateFormat(sampleRate, b.width); err != nil {
		return Buffer{}, err
	}
	if quality < 1 || quality > 64 {
		return Buffer{}, fmt.Errorf("resample quality must be in [1, 64]: %d", quality)
	}
	if b.Len() == 0 {
		return Buffer{}, ErrEmpty
	}
	if sampleRate == b.sampleRate {
		return New(b.samples, b.sampleRate, b.width)
	}
	r := beep.Resample(quality, beep.SampleRate(b.sampleRate), beep.SampleRate(sampleRate), b.Streamer())
	return FromStreamer(r, sampleRate, b.width)
}
