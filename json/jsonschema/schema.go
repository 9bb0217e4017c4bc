// Package jsonschema implements a pragmatic subset of JSON Schema
// validation over the texty JSON DOM: type, properties, required, items,
// enum, const, minimum/maximum, minLength/maxLength, minItems/maxItems.
package jsonschema

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/willabides/texty/json"
)

// Schema is a compiled schema, independent of the document used to
// produce it.
type Schema struct {
	types      []string
	properties map[string]*Schema
	required   []string
	items      *Schema
	enum       []*json.Value
	constVal   *json.Value
	hasConst   bool
	minimum    *float64
	maximum    *float64
	minLength  *int
	maxLength  *int
	minItems   *int
	maxItems   *int
}

// Compile builds a Schema from a schema document. Unrecognized keywords
// are ignored.
func Compile(doc *json.Value) (*Schema, error) {
	if doc == nil || doc.Type != json.ObjectValue {
		return &Schema{}, nil
	}
	s := &Schema{}
	if t := doc.Get("type"); t != nil {
		switch t.Type {
		case json.StringValue:
			s.types = []string{t.Str}
		case json.ArrayValue:
			for _, e := range t.Array {
				s.types = append(s.types, e.Str)
			}
		}
	}
	if props := doc.Get("properties"); props != nil && props.Type == json.ObjectValue {
		s.properties = map[string]*Schema{}
		for _, m := range props.Object {
			sub, err := Compile(m.Value)
			if err != nil {
				return nil, err
			}
			s.properties[m.Key] = sub
		}
	}
	if req := doc.Get("required"); req != nil && req.Type == json.ArrayValue {
		for _, e := range req.Array {
			s.required = append(s.required, e.Str)
		}
	}
	if items := doc.Get("items"); items != nil {
		sub, err := Compile(items)
		if err != nil {
			return nil, err
		}
		s.items = sub
	}
	if enum := doc.Get("enum"); enum != nil && enum.Type == json.ArrayValue {
		s.enum = json.Clone(enum).Array
	}
	if c := doc.Get("const"); c != nil {
		s.constVal = json.Clone(c)
		s.hasConst = true
	}
	s.minimum = numPtr(doc.Get("minimum"))
	s.maximum = numPtr(doc.Get("maximum"))
	s.minLength = intPtr(doc.Get("minLength"))
	s.maxLength = intPtr(doc.Get("maxLength"))
	s.minItems = intPtr(doc.Get("minItems"))
	s.maxItems = intPtr(doc.Get("maxItems"))
	return s, nil
}

func numPtr(v *json.Value) *float64 {
	if v == nil || v.Type != json.NumberValue {
		return nil
	}
	f := doubleOf(v.Num)
	return &f
}

func intPtr(v *json.Value) *int {
	if v == nil || v.Type != json.NumberValue {
		return nil
	}
	n := int(doubleOf(v.Num))
	return &n
}

func doubleOf(n json.Number) float64 {
	switch {
	case n.HasDouble:
		return n.Double
	case n.HasInt:
		return float64(n.Int)
	case n.HasUint:
		return float64(n.Uint)
	}
	return 0
}

// Validate checks v against the compiled schema, returning nil or a
// json.Error naming the failing keyword and path.
func (s *Schema) Validate(v *json.Value) error {
	return s.validateAt(v, "")
}

func (s *Schema) validateAt(v *json.Value, path string) error {
	if len(s.types) > 0 && !typeMatches(v, s.types) {
		return schemaErr(path, "type", fmt.Sprintf("value does not match type %v", s.types))
	}
	if s.hasConst && !json.Equal(v, s.constVal) {
		diff := cmp.Diff(s.constVal, v)
		return schemaErr(path, "const", "value does not match const:\n"+diff)
	}
	if len(s.enum) > 0 {
		matched := false
		for _, e := range s.enum {
			if json.Equal(v, e) {
				matched = true
				break
			}
		}
		if !matched {
			return schemaErr(path, "enum", "value is not one of the enumerated values")
		}
	}
	if v != nil && v.Type == json.NumberValue {
		f := doubleOf(v.Num)
		if s.minimum != nil && f < *s.minimum {
			return schemaErr(path, "minimum", "value is below minimum")
		}
		if s.maximum != nil && f > *s.maximum {
			return schemaErr(path, "maximum", "value exceeds maximum")
		}
	}
	if v != nil && v.Type == json.StringValue {
		n := len(v.Str)
		if s.minLength != nil && n < *s.minLength {
			return schemaErr(path, "minLength", "string is shorter than minLength")
		}
		if s.maxLength != nil && n > *s.maxLength {
			return schemaErr(path, "maxLength", "string exceeds maxLength")
		}
	}
	if v != nil && v.Type == json.ArrayValue {
		n := len(v.Array)
		if s.minItems != nil && n < *s.minItems {
			return schemaErr(path, "minItems", "array has fewer than minItems elements")
		}
		if s.maxItems != nil && n > *s.maxItems {
			return schemaErr(path, "maxItems", "array exceeds maxItems elements")
		}
		if s.items != nil {
			for i, e := range v.Array {
				if err := s.items.validateAt(e, fmt.Sprintf("%s/%d", path, i)); err != nil {
					return err
				}
			}
		}
	}
	if v != nil && v.Type == json.ObjectValue {
		for _, name := range s.required {
			if v.Get(name) == nil {
				return schemaErr(path, "required", "missing required property: "+name)
			}
		}
		for key, sub := range s.properties {
			if member := v.Get(key); member != nil {
				if err := sub.validateAt(member, path+"/"+key); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func schemaErr(path, keyword, msg string) error {
	if path == "" {
		path = "/"
	}
	return &json.Error{Code: json.ESchema, Message: keyword + ": " + msg, Path: path}
}

func typeMatches(v *json.Value, types []string) bool {
	var actual string
	switch {
	case v.IsNull():
		actual = "null"
	case v.Type == json.BoolValue:
		actual = "boolean"
	case v.Type == json.NumberValue:
		actual = "number"
	case v.Type == json.StringValue:
		actual = "string"
	case v.Type == json.ArrayValue:
		actual = "array"
	case v.Type == json.ObjectValue:
		actual = "object"
	}
	for _, t := range types {
		if t == actual {
			return true
		}
		if t == "integer" && actual == "number" && v.Num.HasInt {
			return true
		}
	}
	return false
}
