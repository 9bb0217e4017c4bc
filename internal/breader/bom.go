package breader

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding identifies the detected stream encoding.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
)

// DetectAndDecode inspects the leading bytes of buf for a byte-order mark,
// strips a UTF-8 BOM, and transcodes UTF-16/UTF-32 input to UTF-8 using
// golang.org/x/text. UTF-8 input with no BOM is returned unchanged. The
// returned bool reports whether a BOM was present.
func DetectAndDecode(buf []byte) (decoded []byte, enc Encoding, hadBOM bool, err error) {
	switch {
	case hasPrefix(buf, "\xef\xbb\xbf"):
		return buf[3:], UTF8, true, nil
	case hasPrefix(buf, "\xff\xfe\x00\x00"):
		out, err := decodeWith(utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM), buf)
		return out, UTF32LE, true, err
	case hasPrefix(buf, "\x00\x00\xfe\xff"):
		out, err := decodeWith(utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM), buf)
		return out, UTF32BE, true, err
	case hasPrefix(buf, "\xff\xfe"):
		out, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), buf)
		return out, UTF16LE, true, err
	case hasPrefix(buf, "\xfe\xff"):
		out, err := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), buf)
		return out, UTF16BE, true, err
	default:
		return buf, UTF8, false, nil
	}
}

func hasPrefix(buf []byte, prefix string) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}

func decodeWith(enc encoding.Encoding, buf []byte) ([]byte, error) {
	out, _, err := enc.NewDecoder().Bytes(buf)
	return out, err
}
