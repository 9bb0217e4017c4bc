package breader

import "testing"

func TestReaderPositionTracking(t *testing.T) {
	r := New([]byte("ab\ncd"))
	want := []struct {
		b, line, col int
	}{
		{'a', 1, 2},
		{'b', 1, 3},
		{'\n', 2, 1},
		{'c', 2, 2},
		{'d', 2, 3},
	}
	for _, w := range want {
		if r.Peek() == EOF {
			t.Fatalf("unexpected EOF")
		}
		b := r.Consume()
		if b != w.b || r.Line() != w.line || r.Column() != w.col {
			t.Fatalf("got (%d,%d,%d), want (%d,%d,%d)", b, r.Line(), r.Column(), w.b, w.line, w.col)
		}
	}
	if r.Peek() != EOF {
		t.Fatal("expected EOF")
	}
}

func TestReaderCRLFNormalization(t *testing.T) {
	r := New([]byte("a\r\nb\rc"))
	if got := r.Consume(); got != 'a' {
		t.Fatalf("got %c", got)
	}
	if got := r.Consume(); got != '\n' {
		t.Fatalf("CRLF should normalize to \\n, got %d", got)
	}
	if r.Line() != 2 {
		t.Fatalf("line = %d, want 2", r.Line())
	}
	if got := r.Consume(); got != 'b' {
		t.Fatalf("got %c", got)
	}
	if got := r.Consume(); got != '\n' {
		t.Fatalf("lone CR should normalize to \\n, got %d", got)
	}
	if r.Line() != 3 {
		t.Fatalf("line = %d, want 3", r.Line())
	}
}

func TestValidUTF8(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want bool
	}{
		{"ascii", []byte("hello"), true},
		{"two byte", []byte("h\xc3\xa9llo"), true},
		{"three byte", []byte("\xe4\xb8\xad"), true},
		{"four byte", []byte("\xf0\x9f\x98\x80"), true},
		{"overlong two byte", []byte{0xc0, 0x80}, false},
		{"lone continuation", []byte{0x80}, false},
		{"truncated two byte", []byte{0xc3}, false},
		{"surrogate", []byte{0xed, 0xa0, 0x80}, false},
		{"above U+10FFFF", []byte{0xf4, 0x90, 0x80, 0x80}, false},
		{"overlong three byte", []byte{0xe0, 0x80, 0x80}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ValidUTF8(c.in); got != c.want {
				t.Errorf("ValidUTF8(%x) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestFirstInvalidOffset(t *testing.T) {
	s := []byte("ok\xff")
	if off := FirstInvalidOffset(s); off != 2 {
		t.Fatalf("offset = %d, want 2", off)
	}
	if off := FirstInvalidOffset([]byte("clean")); off != -1 {
		t.Fatalf("offset = %d, want -1", off)
	}
}

func TestDetectAndDecodeUTF8BOM(t *testing.T) {
	out, enc, had, err := DetectAndDecode([]byte("\xef\xbb\xbfhello"))
	if err != nil || enc != UTF8 || !had || string(out) != "hello" {
		t.Fatalf("out=%q enc=%v had=%v err=%v", out, enc, had, err)
	}
}

func TestDetectAndDecodeNoBOM(t *testing.T) {
	out, enc, had, err := DetectAndDecode([]byte("hello"))
	if err != nil || enc != UTF8 || had || string(out) != "hello" {
		t.Fatalf("out=%q enc=%v had=%v err=%v", out, enc, had, err)
	}
}

func TestDetectAndDecodeUTF16LE(t *testing.T) {
	// "hi" in UTF-16LE with BOM.
	in := []byte{0xff, 0xfe, 'h', 0x00, 'i', 0x00}
	out, enc, had, err := DetectAndDecode(in)
	if err != nil || enc != UTF16LE || !had || string(out) != "hi" {
		t.Fatalf("out=%q enc=%v had=%v err=%v", out, enc, had, err)
	}
}
