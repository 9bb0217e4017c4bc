package json

// ValueType is the JSON DOM's tagged-variant discriminant.
type ValueType int

const (
	NullValue ValueType = iota
	BoolValue
	NumberValue
	StringValue
	ArrayValue
	ObjectValue
)

func (t ValueType) String() string {
	switch t {
	case NullValue:
		return "null"
	case BoolValue:
		return "bool"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case ArrayValue:
		return "array"
	case ObjectValue:
		return "object"
	}
	return "unknown"
}

// Number preserves a JSON number's original lexeme alongside whichever
// derived representations were requested or successfully computed. A
// number is valid if at least one representation is present.
type Number struct {
	Lexeme    string
	HasInt    bool
	Int       int64
	HasUint   bool
	Uint      uint64
	HasDouble bool
	Double    float64
}

// Member is one (key, value) pair of a JSON object, in insertion order.
type Member struct {
	Key   string
	Value *Value
}

// Value is a JSON value: a tagged variant over null, bool, number,
// string, array, and object. Strings may contain embedded NULs.
type Value struct {
	Type   ValueType
	Bool   bool
	Num    Number
	Str    string
	Array  []*Value
	Object []Member

	// DupKeys records, for ObjectValue built under the COLLECT duplicate
	// key policy, which member indices shared a key (keyed by name).
	DupKeys map[string][]int
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{Type: NullValue} }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{Type: BoolValue, Bool: b} }

// NewInt returns a number value carrying only an int64 representation.
func NewInt(n int64) *Value {
	return &Value{Type: NumberValue, Num: Number{Lexeme: formatInt(n), HasInt: true, Int: n}}
}

// NewDouble returns a number value carrying only a double representation.
func NewDouble(f float64) *Value {
	return &Value{Type: NumberValue, Num: Number{Lexeme: formatDouble(f, shortestFloat, 0), HasDouble: true, Double: f}}
}

// NewString returns a string value.
func NewString(s string) *Value { return &Value{Type: StringValue, Str: s} }

// NewArray returns an empty array value.
func NewArray() *Value { return &Value{Type: ArrayValue} }

// NewObject returns an empty object value.
func NewObject() *Value { return &Value{Type: ObjectValue} }

// IsNull reports whether v is null (or v itself is nil).
func (v *Value) IsNull() bool { return v == nil || v.Type == NullValue }

// Get returns the value of the named member of an object, or nil if
// absent or v is not an object. Under the COLLECT policy this returns
// the first recorded occurrence.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Type != ObjectValue {
		return nil
	}
	for _, m := range v.Object {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Keys returns an object's member names in insertion order.
func (v *Value) Keys() []string {
	if v == nil || v.Type != ObjectValue {
		return nil
	}
	keys := make([]string, len(v.Object))
	for i, m := range v.Object {
		keys[i] = m.Key
	}
	return keys
}

// Len returns the number of elements in an array or members in an
// object, or 0 otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.Type {
	case ArrayValue:
		return len(v.Array)
	case ObjectValue:
		return len(v.Object)
	}
	return 0
}

// Put upserts a member: if key already exists its value is replaced
// in place (preserving position), else the member is appended.
func (v *Value) Put(key string, val *Value) {
	for i, m := range v.Object {
		if m.Key == key {
			v.Object[i].Value = val
			return
		}
	}
	v.Object = append(v.Object, Member{Key: key, Value: val})
}

// Delete removes a member by key, if present.
func (v *Value) Delete(key string) {
	for i, m := range v.Object {
		if m.Key == key {
			v.Object = append(v.Object[:i], v.Object[i+1:]...)
			return
		}
	}
}

// Push appends val to an array value.
func (v *Value) Push(val *Value) {
	v.Array = append(v.Array, val)
}

// Clone returns a deep copy of v. A nil v returns nil.
func Clone(v *Value) *Value {
	if v == nil {
		return nil
	}
	out := &Value{Type: v.Type, Bool: v.Bool, Num: v.Num, Str: v.Str}
	if v.Array != nil {
		out.Array = make([]*Value, len(v.Array))
		for i, e := range v.Array {
			out.Array[i] = Clone(e)
		}
	}
	if v.Object != nil {
		out.Object = make([]Member, len(v.Object))
		for i, m := range v.Object {
			out.Object[i] = Member{Key: m.Key, Value: Clone(m.Value)}
		}
	}
	if v.DupKeys != nil {
		out.DupKeys = make(map[string][]int, len(v.DupKeys))
		for k, idxs := range v.DupKeys {
			out.DupKeys[k] = append([]int(nil), idxs...)
		}
	}
	return out
}

// Equal reports structural, value-wise equality per RFC 6902 `test`
// semantics: numbers compare by lexeme unless both sides have a usable
// double representation that differs only in formatting.
func Equal(a, b *Value) bool {
	if a.IsNull() && b.IsNull() {
		return true
	}
	if a == nil || b == nil || a.Type != b.Type {
		return false
	}
	switch a.Type {
	case BoolValue:
		return a.Bool == b.Bool
	case NumberValue:
		return numberEqual(a.Num, b.Num)
	case StringValue:
		return a.Str == b.Str
	case ArrayValue:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !Equal(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case ObjectValue:
		if len(a.Object) != len(b.Object) {
			return false
		}
		for _, m := range a.Object {
			bv := b.Get(m.Key)
			if bv == nil || !Equal(m.Value, bv) {
				return false
			}
		}
		return true
	}
	return true
}

func numberEqual(a, b Number) bool {
	if a.Lexeme == b.Lexeme {
		return true
	}
	if a.HasDouble && b.HasDouble {
		return a.Double == b.Double
	}
	if a.HasInt && b.HasInt {
		return a.Int == b.Int
	}
	if a.HasUint && b.HasUint {
		return a.Uint == b.Uint
	}
	return false
}
