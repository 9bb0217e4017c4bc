// Package jsonpatch implements RFC 6902 JSON Patch and RFC 7386 JSON
// Merge Patch over the texty JSON DOM.
package jsonpatch

import (
	"strconv"
	"strings"

	"github.com/willabides/texty/json"
	"github.com/willabides/texty/json/jsonpointer"
)

// Op is one RFC 6902 patch operation.
type Op struct {
	Op    string // add, remove, replace, move, copy, test
	Path  string
	From  string
	Value *json.Value
}

// Apply applies ops to root in sequence. On any failure the returned error
// describes the failing operation and root is left exactly as it was
// before Apply was called (the patch is atomic).
func Apply(root *json.Value, ops []Op) (*json.Value, error) {
	working := json.Clone(root)
	for i, op := range ops {
		var err error
		working, err = applyOne(working, op)
		if err != nil {
			return nil, &json.Error{Code: json.EInvalid, Message: "operation " + strings.TrimSpace(op.Op) + " failed: " + err.Error(), Path: op.Path, ActualToken: strconv.Itoa(i)}
		}
	}
	return working, nil
}

func applyOne(root *json.Value, op Op) (*json.Value, error) {
	switch op.Op {
	case "add":
		return add(root, op.Path, op.Value)
	case "remove":
		return remove(root, op.Path)
	case "replace":
		if _, err := jsonpointer.Get(root, op.Path); err != nil {
			return nil, err
		}
		r, err := remove(root, op.Path)
		if err != nil {
			return nil, err
		}
		return add(r, op.Path, op.Value)
	case "move":
		if strings.HasPrefix(op.Path, op.From+"/") || op.Path == op.From {
			return nil, &json.Error{Code: json.EInvalid, Message: "move source must not be a prefix of target"}
		}
		v, err := jsonpointer.Get(root, op.From)
		if err != nil {
			return nil, err
		}
		r, err := remove(root, op.From)
		if err != nil {
			return nil, err
		}
		return add(r, op.Path, v)
	case "copy":
		v, err := jsonpointer.Get(root, op.From)
		if err != nil {
			return nil, err
		}
		return add(root, op.Path, json.Clone(v))
	case "test":
		v, err := jsonpointer.Get(root, op.Path)
		if err != nil {
			return nil, err
		}
		if !json.Equal(v, op.Value) {
			return nil, &json.Error{Code: json.EInvalid, Message: "test operation: value mismatch", Path: op.Path}
		}
		return root, nil
	default:
		return nil, &json.Error{Code: json.EInvalid, Message: "unknown patch operation: " + op.Op}
	}
}

func add(root *json.Value, path string, val *json.Value) (*json.Value, error) {
	if path == "" {
		return val, nil
	}
	parent, tok, err := jsonpointer.GetMut(root, path)
	if err != nil {
		return nil, err
	}
	switch parent.Type {
	case json.ObjectValue:
		parent.Put(tok, val)
	case json.ArrayValue:
		idx, isAppend, err := jsonpointer.ArrayIndex(tok, len(parent.Array))
		if err != nil {
			return nil, err
		}
		if isAppend {
			parent.Array = append(parent.Array, val)
			break
		}
		if idx > len(parent.Array) {
			return nil, &json.Error{Code: json.EInvalid, Message: "array index out of range", Path: path}
		}
		parent.Array = append(parent.Array, nil)
		copy(parent.Array[idx+1:], parent.Array[idx:])
		parent.Array[idx] = val
	default:
		return nil, &json.Error{Code: json.EInvalid, Message: "add target parent is not a container", Path: path}
	}
	return root, nil
}

func remove(root *json.Value, path string) (*json.Value, error) {
	parent, tok, err := jsonpointer.GetMut(root, path)
	if err != nil {
		return nil, err
	}
	switch parent.Type {
	case json.ObjectValue:
		if parent.Get(tok) == nil {
			return nil, &json.Error{Code: json.EInvalid, Message: "remove target not found", Path: path}
		}
		parent.Delete(tok)
	case json.ArrayValue:
		idx, isAppend, err := jsonpointer.ArrayIndex(tok, len(parent.Array))
		if err != nil || isAppend || idx >= len(parent.Array) {
			return nil, &json.Error{Code: json.EInvalid, Message: "remove target not found", Path: path}
		}
		parent.Array = append(parent.Array[:idx], parent.Array[idx+1:]...)
	default:
		return nil, &json.Error{Code: json.EInvalid, Message: "remove target parent is not a container", Path: path}
	}
	return root, nil
}

func arrayIndexForAdd(tok string, length int) (idx int, isAppend bool, err error) {
	if tok == "-" {
		return length, true, nil
	}
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false, &json.Error{Code: json.EInvalid, Message: "invalid array index token: " + tok}
	}
	n := 0
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, false, &json.Error{Code: json.EInvalid, Message: "invalid array index token: " + tok}
		}
		n = n*10 + int(c-'0')
	}
	if n > length {
		return 0, false, &json.Error{Code: json.EInvalid, Message: "array index out of range"}
	}
	return n, false, nil
}

// MergePatch applies an RFC 7386 merge patch to target, returning a new
// value. A non-object patch replaces target entirely.
func MergePatch(target, patch *json.Value) *json.Value {
	if patch == nil || patch.Type != json.ObjectValue {
		return json.Clone(patch)
	}
	var result *json.Value
	if target != nil && target.Type == json.ObjectValue {
		result = json.Clone(target)
	} else {
		result = json.NewObject()
	}
	for _, m := range patch.Object {
		if m.Value.IsNull() {
			result.Delete(m.Key)
			continue
		}
		existing := result.Get(m.Key)
		if m.Value.Type == json.ObjectValue && existing != nil && existing.Type == json.ObjectValue {
			result.Put(m.Key, MergePatch(existing, m.Value))
		} else {
			result.Put(m.Key, json.Clone(m.Value))
		}
	}
	return result
}
