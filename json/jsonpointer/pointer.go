// Package jsonpointer implements RFC 6901 JSON Pointer resolution over
// the texty JSON DOM.
package jsonpointer

import (
	"strconv"
	"strings"

	"github.com/willabides/texty/json"
)

// Parse splits a pointer string into its unescaped reference tokens. The
// empty string denotes the document root and returns a nil, non-error
// token slice.
func Parse(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}
	if pointer[0] != '/' {
		return nil, &json.Error{Code: json.EInvalid, Message: "pointer must start with '/'", Path: pointer}
	}
	parts := strings.Split(pointer[1:], "/")
	tokens := make([]string, len(parts))
	for i, p := range parts {
		tokens[i] = unescape(p)
	}
	return tokens, nil
}

func unescape(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] == '~' && i+1 < len(tok) {
			switch tok[i+1] {
			case '0':
				b.WriteByte('~')
				i++
				continue
			case '1':
				b.WriteByte('/')
				i++
				continue
			}
		}
		b.WriteByte(tok[i])
	}
	return b.String()
}

func escape(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	s := strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// Escape renders tok as a single escaped reference token, for building
// pointer strings.
func Escape(tok string) string { return escape(tok) }

// ArrayIndex parses tok as an array index per RFC 6901: a non-negative
// decimal with no leading zeros except "0" itself. "-" returns (length,
// true, nil) with isAppend=true for callers that permit it (JSON Patch
// add).
func ArrayIndex(tok string, length int) (idx int, isAppend bool, err error) {
	return arrayIndex(tok, length)
}

func arrayIndex(tok string, length int) (idx int, isAppend bool, err error) {
	if tok == "-" {
		return length, true, nil
	}
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false, &json.Error{Code: json.EInvalid, Message: "invalid array index token: " + tok}
	}
	n, err2 := strconv.Atoi(tok)
	if err2 != nil || n < 0 {
		return 0, false, &json.Error{Code: json.EInvalid, Message: "invalid array index token: " + tok}
	}
	return n, false, nil
}

// Get resolves pointer against root and returns the referenced value, or
// an error if any segment is not found.
func Get(root *json.Value, pointer string) (*json.Value, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}
	return get(root, tokens, pointer)
}

func get(root *json.Value, tokens []string, fullPath string) (*json.Value, error) {
	cur := root
	for i, tok := range tokens {
		switch {
		case cur != nil && cur.Type == json.ObjectValue:
			next := cur.Get(tok)
			if next == nil {
				return nil, notFound(fullPath, tokens[:i+1])
			}
			cur = next
		case cur != nil && cur.Type == json.ArrayValue:
			idx, isAppend, err := arrayIndex(tok, len(cur.Array))
			if err != nil {
				return nil, err
			}
			if isAppend || idx < 0 || idx >= len(cur.Array) {
				return nil, notFound(fullPath, tokens[:i+1])
			}
			cur = cur.Array[idx]
		default:
			return nil, notFound(fullPath, tokens[:i+1])
		}
	}
	return cur, nil
}

func notFound(fullPath string, tokens []string) error {
	return &json.Error{Code: json.EInvalid, Message: "pointer segment not found", Path: pathString(tokens)}
}

func pathString(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escape(t))
	}
	return b.String()
}

// GetMut resolves pointer against root and returns the parent container
// and the final token (for in-place mutation by callers such as
// jsonpatch). The root itself cannot be
// mutated this way; an empty pointer returns an error.
func GetMut(root *json.Value, pointer string) (parent *json.Value, lastToken string, err error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, "", err
	}
	if len(tokens) == 0 {
		return nil, "", &json.Error{Code: json.EInvalid, Message: "pointer must reference a non-root location for mutation"}
	}
	parent, err = get(root, tokens[:len(tokens)-1], pointer)
	if err != nil {
		return nil, "", err
	}
	return parent, tokens[len(tokens)-1], nil
}
