package buffer

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-grain/dsp/core"
)

func TestNewStreamRejectsZeroCapacity(t *testing.T) {
	for _, capacity := range []int{0, -4} {
		_, err := NewStream(capacity)
		if !errors.Is(err, core.ErrInvalidConfiguration) {
			t.Fatalf("NewStream(%d) err = %v, want ErrInvalidConfiguration", capacity, err)
		}
	}
}

func TestStreamStartsZeroFilled(t *testing.T) {
	s, err := NewStream(3)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range s.ReadAdvance() {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestStreamReadAfterWrap(t *testing.T) {
	s, err := NewStream(4)
	if err != nil {
		t.Fatal(err)
	}

	s.WriteSlice([]float64{1, 2, 3, 4, 5})

	got := s.ReadAdvance()
	want := []float64{2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReadAdvance() = %v, want %v", got, want)
		}
	}
}

func TestStreamRepeatedReadsMoveCursor(t *testing.T) {
	s, err := NewStream(4)
	if err != nil {
		t.Fatal(err)
	}

	s.WriteSlice([]float64{1, 2, 3, 4, 5})

	first := s.ReadAdvance()
	if s.Cursor() != 4 {
		t.Fatalf("Cursor() = %d, want 4", s.Cursor())
	}

	second := s.ReadAdvance()
	if s.Cursor() != 8 {
		t.Fatalf("Cursor() = %d, want 8", s.Cursor())
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated read differs at %d: %v vs %v", i, first, second)
		}
	}
}

func TestStreamPartialReadAdvance(t *testing.T) {
	s, err := NewStream(4)
	if err != nil {
		t.Fatal(err)
	}

	s.WriteSlice([]float64{1, 2, 3, 4})

	dst := make([]float64, 3)
	if n := s.ReadAdvanceInto(dst); n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if dst[0] != 1 || dst[2] != 3 {
		t.Fatalf("first read = %v", dst)
	}

	if n := s.ReadAdvanceInto(dst); n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	// Cursor 3 addresses the newest sample, then wraps to the oldest.
	if dst[0] != 4 || dst[1] != 1 || dst[2] != 2 {
		t.Fatalf("second read = %v, want [4 1 2]", dst)
	}
}

func TestStreamPeekDoesNotMoveCursor(t *testing.T) {
	s, err := NewStream(2)
	if err != nil {
		t.Fatal(err)
	}

	s.WriteSlice([]float64{7, 8})

	dst := make([]float64, 5)
	if n := s.Peek(dst); n != 2 {
		t.Fatalf("Peek n = %d, want 2", n)
	}
	if s.Cursor() != 0 {
		t.Fatalf("Cursor() = %d after Peek, want 0", s.Cursor())
	}
	if dst[0] != 7 || dst[1] != 8 {
		t.Fatalf("Peek = %v", dst[:2])
	}
}

func TestStreamWriteSequenceMixesDown(t *testing.T) {
	s, err := NewStream(2)
	if err != nil {
		t.Fatal(err)
	}

	s.WriteSequence(core.Sequence{
		Samples:    []float64{1, 0, 0, -1},
		SampleRate: 100,
		Channels:   2,
	})

	got := s.ReadAdvance()
	if got[0] != 0.5 || got[1] != -0.5 {
		t.Fatalf("ReadAdvance() = %v, want [0.5 -0.5]", got)
	}
}

func TestStreamReset(t *testing.T) {
	s, err := NewStream(3)
	if err != nil {
		t.Fatal(err)
	}

	s.WriteSlice([]float64{1, 2})
	_ = s.ReadAdvance()
	s.Reset()

	if s.Cursor() != 0 {
		t.Fatalf("Cursor() = %d after Reset, want 0", s.Cursor())
	}
	for i, v := range s.ReadAdvance() {
		if v != 0 {
			t.Fatalf("sample %d = %v after Reset", i, v)
		}
	}
}

func TestStreamReadAdvanceIntoDoesNotAllocate(t *testing.T) {
	s, err := NewStream(64)
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]float64, 64)
	allocs := testing.AllocsPerRun(100, func() {
		s.Write(1)
		s.ReadAdvanceInto(dst)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}
