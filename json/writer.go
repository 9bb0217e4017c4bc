package json

import (
	"math"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/willabides/texty/internal/sink"
)

// Writer serializes a Value to a sink.Writer under WriteOptions.
type Writer struct {
	w    sink.Writer
	opts WriteOptions
}

// NewWriter wraps w for Value serialization.
func NewWriter(w sink.Writer, opts WriteOptions) *Writer {
	return &Writer{w: w, opts: opts}
}

// Write serializes v to the underlying sink.
func (w *Writer) Write(v *Value) error {
	return w.writeValue(v, 0)
}

// Marshal serializes v into a freshly allocated buffer.
func Marshal(v *Value, opts WriteOptions) ([]byte, error) {
	g := sink.NewGrowable()
	if err := NewWriter(g, opts).Write(v); err != nil {
		return nil, err
	}
	return g.Bytes(), nil
}

func (w *Writer) emit(b []byte) error {
	if _, err := w.w.Write(b); err != nil {
		return &Error{Code: EWrite, Message: err.Error()}
	}
	return nil
}

func (w *Writer) writeValue(v *Value, depth int) error {
	if v.IsNull() {
		return w.emit([]byte("null"))
	}
	switch v.Type {
	case BoolValue:
		if v.Bool {
			return w.emit([]byte("true"))
		}
		return w.emit([]byte("false"))
	case NumberValue:
		return w.emit([]byte(w.formatNumber(v.Num)))
	case StringValue:
		return w.emit(w.encodeString(v.Str))
	case ArrayValue:
		return w.writeArray(v, depth)
	case ObjectValue:
		return w.writeObject(v, depth)
	}
	return nil
}

func (w *Writer) inline(n, threshold int) bool {
	if !w.opts.Pretty {
		return true
	}
	switch {
	case threshold < 0:
		return true
	case threshold == 0:
		return false
	default:
		return n <= threshold
	}
}

func (w *Writer) writeArray(v *Value, depth int) error {
	if len(v.Array) == 0 {
		return w.emit([]byte("[]"))
	}
	if w.inline(len(v.Array), w.opts.ArrayInline) {
		if err := w.emit([]byte{'['}); err != nil {
			return err
		}
		for i, e := range v.Array {
			if i > 0 {
				if err := w.emit([]byte{','}); err != nil {
					return err
				}
			}
			if err := w.writeValue(e, depth+1); err != nil {
				return err
			}
		}
		return w.emit([]byte{']'})
	}
	if err := w.emit([]byte("[\n")); err != nil {
		return err
	}
	for i, e := range v.Array {
		if err := w.emit(w.indent(depth + 1)); err != nil {
			return err
		}
		if err := w.writeValue(e, depth+1); err != nil {
			return err
		}
		if i < len(v.Array)-1 {
			if err := w.emit([]byte{','}); err != nil {
				return err
			}
		}
		if err := w.emit([]byte{'\n'}); err != nil {
			return err
		}
	}
	if err := w.emit(w.indent(depth)); err != nil {
		return err
	}
	return w.emit([]byte{']'})
}

func (w *Writer) writeObject(v *Value, depth int) error {
	members := v.Object
	if w.opts.SortObjectKeys {
		members = append([]Member(nil), members...)
		sort.Slice(members, func(i, j int) bool { return members[i].Key < members[j].Key })
	}
	if len(members) == 0 {
		return w.emit([]byte("{}"))
	}
	if w.inline(len(members), w.opts.ObjectInline) {
		if err := w.emit([]byte{'{'}); err != nil {
			return err
		}
		for i, m := range members {
			if i > 0 {
				if err := w.emit([]byte{','}); err != nil {
					return err
				}
			}
			if err := w.emit(w.encodeString(m.Key)); err != nil {
				return err
			}
			if err := w.emit([]byte{':'}); err != nil {
				return err
			}
			if err := w.writeValue(m.Value, depth+1); err != nil {
				return err
			}
		}
		return w.emit([]byte{'}'})
	}
	if err := w.emit([]byte("{\n")); err != nil {
		return err
	}
	for i, m := range members {
		if err := w.emit(w.indent(depth + 1)); err != nil {
			return err
		}
		if err := w.emit(w.encodeString(m.Key)); err != nil {
			return err
		}
		if err := w.emit([]byte(": ")); err != nil {
			return err
		}
		if err := w.writeValue(m.Value, depth+1); err != nil {
			return err
		}
		if i < len(members)-1 {
			if err := w.emit([]byte{','}); err != nil {
				return err
			}
		}
		if err := w.emit([]byte{'\n'}); err != nil {
			return err
		}
	}
	if err := w.emit(w.indent(depth)); err != nil {
		return err
	}
	return w.emit([]byte{'}'})
}

func (w *Writer) indent(depth int) []byte {
	n := w.opts.IndentSpaces
	if n <= 0 {
		n = 2
	}
	buf := make([]byte, depth*n)
	for i := range buf {
		buf[i] = ' '
	}
	return buf
}

func (w *Writer) formatNumber(num Number) string {
	if !w.opts.CanonicalNumbers {
		return num.Lexeme
	}
	if num.HasInt {
		return formatInt(num.Int)
	}
	if num.HasUint {
		return strconv.FormatUint(num.Uint, 10)
	}
	return formatDouble(num.Double, w.opts.FloatFormat, w.opts.FloatPrecision)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatDouble(f float64, mode FloatFormat, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		switch {
		case math.IsNaN(f):
			return "NaN"
		case math.IsInf(f, 1):
			return "Infinity"
		default:
			return "-Infinity"
		}
	}
	switch mode {
	case fixedFloat:
		if precision <= 0 {
			precision = 6
		}
		return strconv.FormatFloat(f, 'f', precision, 64)
	case scientificFloat:
		if precision <= 0 {
			precision = 6
		}
		return strconv.FormatFloat(f, 'e', precision, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func (w *Writer) encodeString(s string) []byte {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			out = append(out, '\\', '"')
		case r == '\\':
			out = append(out, '\\', '\\')
		case r == '/' && w.opts.EscapeSolidus:
			out = append(out, '\\', '/')
		case r == '\b':
			out = append(out, '\\', 'b')
		case r == '\f':
			out = append(out, '\\', 'f')
		case r == '\n':
			out = append(out, '\\', 'n')
		case r == '\r':
			out = append(out, '\\', 'r')
		case r == '\t':
			out = append(out, '\\', 't')
		case r < 0x20:
			out = append(out, []byte(`\u`)...)
			out = appendHex4(out, uint16(r))
		case r == utf8.RuneError && size == 1:
			out = append(out, []byte(`�`)...)
		case r > 0x7E && (w.opts.EscapeUnicode || w.opts.EscapeAllNonASCII):
			if r > 0xFFFF {
				r1, r2 := utf16Surrogates(r)
				out = append(out, []byte(`\u`)...)
				out = appendHex4(out, r1)
				out = append(out, []byte(`\u`)...)
				out = appendHex4(out, r2)
			} else {
				out = append(out, []byte(`\u`)...)
				out = appendHex4(out, uint16(r))
			}
		default:
			out = append(out, s[i:i+size]...)
		}
		i += size
	}
	out = append(out, '"')
	return out
}

const hexDigits = "0123456789abcdef"

func appendHex4(buf []byte, n uint16) []byte {
	return append(buf, hexDigits[(n>>12)&0xF], hexDigits[(n>>8)&0xF], hexDigits[(n>>4)&0xF], hexDigits[n&0xF])
}

func utf16Surrogates(r rune) (uint16, uint16) {
	r -= 0x10000
	return uint16(0xD800 + (r >> 10)), uint16(0xDC00 + (r & 0x3FF))
}
