package resolve

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DecodeBinary base64-decodes a !!binary scalar, accepting embedded
// whitespace as the spec permits.
func DecodeBinary(scalar string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(scalar))
	for _, r := range scalar {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return base64.StdEncoding.DecodeString(b.String())
}

// NormalizeTimestamp parses a !!timestamp scalar (ISO 8601 date or
// date-time) and returns its normalized form: time zone rendered as
// ±HH:MM and trailing fractional-second zeros trimmed.
func NormalizeTimestamp(scalar string) (string, time.Time, bool) {
	t, ok := parseTimestamp(scalar)
	if !ok {
		return "", time.Time{}, false
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 && !strings.ContainsAny(scalar, "tT :") {
		return t.Format("2006-01-02"), t, true
	}
	out := t.Format("2006-01-02T15:04:05.999999999Z07:00")
	return out, t, true
}

// ValidateSet reports whether pairs represent a well-formed !!set: every
// value must be null. valueIsNull[i] reports whether the i-th value was null.
func ValidateSet(valueIsNull []bool) error {
	for i, isNull := range valueIsNull {
		if !isNull {
			return fmt.Errorf("yaml: !!set entry %d has a non-null value", i)
		}
	}
	return nil
}

// ValidateOmap reports whether an !!omap sequence (each element a
// single-pair mapping) has duplicate keys, which is an error for omap
// (unlike !!pairs, which permits duplicates).
func ValidateOmap(keys []string) error {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return fmt.Errorf("yaml: !!omap has duplicate key %q", k)
		}
		seen[k] = true
	}
	return nil
}
