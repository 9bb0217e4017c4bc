package arena

import "testing"

func TestAllocGrowth(t *testing.T) {
	a := New()
	var slices [][]byte
	for i := 0; i < 1000; i++ {
		b := a.Alloc(8)
		if len(b) != 8 {
			t.Fatalf("len = %d, want 8", len(b))
		}
		slices = append(slices, b)
	}
	for i, b := range slices {
		b[0] = byte(i)
	}
	for i, b := range slices {
		if b[0] != byte(i) {
			t.Fatalf("slice %d corrupted: got %d", i, b[0])
		}
	}
}

func TestAllocOversize(t *testing.T) {
	a := New()
	big := a.Alloc(128 * 1024)
	if len(big) != 128*1024 {
		t.Fatalf("len = %d", len(big))
	}
}

func TestAllocZeroAndNilArena(t *testing.T) {
	a := New()
	if a.Alloc(0) != nil {
		t.Fatal("zero size alloc should be nil")
	}
	var nilArena *Arena
	if nilArena.Alloc(8) != nil {
		t.Fatal("nil arena alloc should be nil")
	}
}

func TestAllocStringBytes(t *testing.T) {
	a := New()
	s := a.AllocString("hello")
	if s != "hello" {
		t.Fatalf("got %q", s)
	}
	b := a.AllocBytes([]byte("world"))
	if string(b) != "world" {
		t.Fatalf("got %q", b)
	}
}

func TestReleaseResets(t *testing.T) {
	a := New()
	a.Alloc(16)
	a.Release()
	b := a.Alloc(16)
	if len(b) != 16 {
		t.Fatalf("len = %d", len(b))
	}
}
