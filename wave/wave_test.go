package wave

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidates(t *testing.T) {
	tests := []struct {
		rate, width int
		ok          bool
	}{
		{44100, 2, true},
		{8000, 1, true},
		{0, 2, false},
		{44100, 0, false},
		{44100, 5, false},
	}
	for _, tt := range tests {
		_, err := New([]int{1, 2}, tt.rate, tt.width)
		if (err == nil) != tt.ok {
			t.Errorf("New(rate=%d, width=%d) err=%v", tt.rate, tt.width, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("err=%v, want ErrInvalidFormat", err)
		}
	}
}

func TestBufferDoesNotAlias(t *testing.T) {
	src := []int{1, 2, 3, 4}
	b, err := New(src, 44100, 2)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 99
	if b.At(0) != 1 {
		t.Fatal("New aliased its input")
	}

	s := b.Samples()
	s[1] = 99
	if b.At(1) != 2 {
		t.Fatal("Samples exposed internal storage")
	}

	sl, err := b.Slice(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sl.Len() != 2 || sl.At(0) != 2 || sl.At(1) != 3 {
		t.Fatalf("Slice = %v", sl.Samples())
	}
	if sl.SampleRate() != 44100 || sl.SampleWidth() != 2 {
		t.Fatal("Slice lost format")
	}
}

func TestSliceBounds(t *testing.T) {
	b, _ := New([]int{1, 2, 3}, 8000, 2)
	for _, r := range [][2]int{{-1, 2}, {0, 4}, {2, 2}, {3, 1}} {
		if _, err := b.Slice(r[0], r[1]); !errors.Is(err, ErrSliceBounds) {
			t.Errorf("Slice(%d, %d) err=%v, want ErrSliceBounds", r[0], r[1], err)
		}
	}
	if _, err := b.Slice(0, 3); err != nil {
		t.Errorf("full slice: %v", err)
	}
}

func TestNormalized(t *testing.T) {
	b, _ := New([]int{-32768, 0, 16384}, 44100, 2)
	got := b.Normalized()
	want := []float64{-1, 0, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Normalized[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if b.BitDepth() != 16 || b.FullScale() != 32768 {
		t.Fatalf("BitDepth=%d FullScale=%v", b.BitDepth(), b.FullScale())
	}
}

func TestFromFloatClamps(t *testing.T) {
	tests := []struct {
		width  int
		lo, hi int
	}{
		{1, -128, 127},
		{2, -32768, 32767},
		{3, -8388608, 8388607},
		{4, -2147483648, 2147483647},
	}
	for _, tt := range tests {
		b, err := FromFloat([]float64{1e12, -1e12, 1.6, -1.6}, 8000, tt.width)
		if err != nil {
			t.Fatal(err)
		}
		want := []int{tt.hi, tt.lo, 2, -2}
		for i, w := range want {
			if b.At(i) != w {
				t.Errorf("width %d sample %d = %d, want %d", tt.width, i, b.At(i), w)
			}
		}
	}
}

func TestNormalise(t *testing.T) {
	b, _ := New([]int{100, -200, 50}, 8000, 2)
	n, err := Normalise(b)
	if err != nil {
		t.Fatal(err)
	}
	if n.At(1) != -32767 {
		t.Errorf("peak = %d, want -32767", n.At(1))
	}
	if n.At(0) != 16384 && n.At(0) != 16383 {
		t.Errorf("sample 0 = %d", n.At(0))
	}
	if b.At(1) != -200 {
		t.Error("Normalise modified its input")
	}
	if _, err := Normalise(Buffer{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("err=%v, want ErrEmpty", err)
	}
}

func TestSine(t *testing.T) {
	b, err := Sine(1000, 0.5, 8000, 2, 8)
	if err != nil {
		t.Fatal(err)
	}
	// quarter period at 1 kHz / 8 kHz is sample 2
	if got := b.At(2); got != 16384 && got != 16383 {
		t.Errorf("peak sample = %d", got)
	}
	if b.At(0) != 0 || b.At(4) != 0 {
		t.Errorf("zero crossings = %d, %d", b.At(0), b.At(4))
	}
}

func TestStreamerRoundTrip(t *testing.T) {
	b, _ := Sine(440, 0.8, 44100, 2, 3000)
	got, err := FromStreamer(b.Streamer(), 44100, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != b.Len() {
		t.Fatalf("len=%d, want %d", got.Len(), b.Len())
	}
	for i := 0; i < b.Len(); i++ {
		if got.At(i) != b.At(i) {
			t.Fatalf("sample %d: %d != %d", i, got.At(i), b.At(i))
		}
	}
}

func TestResample(t *testing.T) {
	b, _ := Sine(220, 0.5, 44100, 2, 44100)
	r, err := Resample(b, 22050, 4)
	if err != nil {
		t.Fatal(err)
	}
	if r.SampleRate() != 22050 {
		t.Fatalf("rate=%d", r.SampleRate())
	}
	if d := math.Abs(float64(r.Len()) - 22050); d > 64 {
		t.Fatalf("len=%d, want about 22050", r.Len())
	}
	if _, err := Resample(b, 22050, 0); err == nil {
		t.Fatal("quality 0 accepted")
	}
}
