package sink

import "testing"

func TestGrowableGrowth(t *testing.T) {
	g := NewGrowable()
	for i := 0; i < 1000; i++ {
		_, _ = g.Write([]byte("x"))
	}
	if len(g.Bytes()) != 1000 {
		t.Fatalf("len = %d", len(g.Bytes()))
	}
}

func TestFixedTruncation(t *testing.T) {
	buf := make([]byte, 4)
	f := NewFixed(buf)
	n, err := f.Write([]byte("hello"))
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
	if !f.Truncated() {
		t.Fatal("expected Truncated() true")
	}
	if string(f.Bytes()) != "hell" {
		t.Fatalf("bytes = %q", f.Bytes())
	}
	// Subsequent overflowing writes don't re-report.
	_, err = f.Write([]byte("!"))
	if err != nil {
		t.Fatalf("second overflow write returned %v, want nil", err)
	}
}

func TestFixedExactFit(t *testing.T) {
	buf := make([]byte, 5)
	f := NewFixed(buf)
	n, err := f.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if f.Truncated() {
		t.Fatal("should not be truncated on exact fit")
	}
}

func TestCallback(t *testing.T) {
	var got []byte
	c := NewCallback(func(p []byte) error {
		got = append(got, p...)
		return nil
	})
	_, _ = c.Write([]byte("abc"))
	if string(got) != "abc" {
		t.Fatalf("got %q", got)
	}
}
