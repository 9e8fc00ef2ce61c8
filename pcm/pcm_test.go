package pcm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/neurlang/spectro/wave"
)

func TestWavRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		width int
		data  []int
	}{
		{"16 bit", 2, []int{0, 1, -1, 32767, -32768, 1234, -4321}},
		{"24 bit", 3, []int{0, 8388607, -8388608, 100000, -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			b, err := wave.New(tt.data, 22050, tt.width)
			if err != nil {
				t.Fatal(err)
			}
			if err := Write(fs, "/tone.wav", b); err != nil {
				t.Fatal(err)
			}
			got, err := Read(fs, "/tone.wav")
			if err != nil {
				t.Fatal(err)
			}
			if got.SampleRate() != 22050 || got.SampleWidth() != tt.width {
				t.Fatalf("format %d Hz %d bytes", got.SampleRate(), got.SampleWidth())
			}
			if got.Len() != len(tt.data) {
				t.Fatalf("len %d, want %d", got.Len(), len(tt.data))
			}
			for i, v := range tt.data {
				if got.At(i) != v {
					t.Fatalf("sample %d = %d, want %d", i, got.At(i), v)
				}
			}
		})
	}
}

func floatWav() []byte {
	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("RIFF")
	binary.Write(&b, le, uint32(36+8))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, le, uint32(16))
	binary.Write(&b, le, uint16(3)) // IEEE float
	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint32(8000))
	binary.Write(&b, le, uint32(8000*4))
	binary.Write(&b, le, uint16(4))
	binary.Write(&b, le, uint16(32))
	b.WriteString("data")
	binary.Write(&b, le, uint32(8))
	binary.Write(&b, le, float32(0.5))
	binary.Write(&b, le, float32(-0.5))
	return b.Bytes()
}

func TestReadRejectsMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string][]byte{
		"/float.wav":    floatWav(),
		"/garbage.wav":  []byte("definitely not a riff container"),
		"/garbage.flac": []byte("definitely not a flac stream"),
	}
	for name, data := range files {
		if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for name := range files {
		_, err := Read(fs, name)
		var mse *MalformedSourceError
		if !errors.As(err, &mse) {
			t.Errorf("%s: err = %v, want MalformedSourceError", name, err)
			continue
		}
		if mse.Path != name {
			t.Errorf("%s: Path = %q", name, mse.Path)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := Read(fs, "/song.mp3"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("read: err = %v", err)
	}
	b, _ := wave.New([]int{1, 2, 3}, 8000, 2)
	if err := Write(fs, "/song.flac", b); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("write: err = %v", err)
	}
}

func TestWriteEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	b, _ := wave.New(nil, 8000, 2)
	if err := WriteWav(fs, "/empty.wav", b); !errors.Is(err, ErrEmptyBuffer) {
		t.Fatalf("err = %v, want ErrEmptyBuffer", err)
	}
	if ok, _ := afero.Exists(fs, "/empty.wav"); ok {
		t.Fatal("file created for empty buffer")
	}
}

func TestMissingFile(t *testing.T) {
	_, err := Read(afero.NewMemMapFs(), "/nope.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	var mse *MalformedSourceError
	if errors.As(err, &mse) {
		t.Fatal("a missing file is not a malformed source")
	}
}
