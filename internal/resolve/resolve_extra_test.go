package resolve

import "testing"

func TestResolveWithSchemaFailsafe(t *testing.T) {
	tag, v, err := ResolveWithSchema(SchemaFailsafe, "", "true")
	if err != nil || tag != StrTag || v != "true" {
		t.Fatalf("got tag=%s v=%v err=%v", tag, v, err)
	}
}

func TestResolveWithSchemaJSON(t *testing.T) {
	cases := []struct {
		in      string
		tag     string
		wantErr bool
	}{
		{"true", BoolTag, false},
		{"True", StrTag, false}, // JSON is case-sensitive: not a bool.
		{"null", NullTag, false},
		{"42", IntTag, false},
		{"01", StrTag, false}, // leading zero isn't a JSON int.
		{"3.14", FloatTag, false},
	}
	for _, c := range cases {
		tag, _, err := ResolveWithSchema(SchemaJSON, "", c.in)
		if err != nil {
			t.Fatalf("unexpected err for %q: %v", c.in, err)
		}
		if tag != c.tag {
			t.Errorf("ResolveWithSchema(JSON, %q) tag = %s, want %s", c.in, tag, c.tag)
		}
	}
}

func TestResolveWithSchema11Booleans(t *testing.T) {
	for _, in := range []string{"yes", "Yes", "on", "ON"} {
		tag, v, err := ResolveWithSchema(Schema11, "", in)
		if err != nil || tag != BoolTag || v != true {
			t.Errorf("ResolveWithSchema(1.1, %q) = %s %v %v, want bool true", in, tag, v, err)
		}
	}
	for _, in := range []string{"no", "off", "OFF"} {
		tag, v, err := ResolveWithSchema(Schema11, "", in)
		if err != nil || tag != BoolTag || v != false {
			t.Errorf("ResolveWithSchema(1.1, %q) = %s %v %v, want bool false", in, tag, v, err)
		}
	}
}

func TestResolveCoreDoesNotRecognizeYes(t *testing.T) {
	tag, v, err := ResolveWithSchema(SchemaCore, "", "yes")
	if err != nil || tag != StrTag || v != "yes" {
		t.Fatalf("CORE schema should treat 'yes' as a string, got %s %v %v", tag, v, err)
	}
}

func TestSexagesimal(t *testing.T) {
	iv, ok := parseSexagesimalInt("1:30")
	if !ok || iv != 90 {
		t.Fatalf("got %d %v, want 90 true", iv, ok)
	}
	fv, ok := parseSexagesimalFloat("1:30.5")
	if !ok || fv != 90.5 {
		t.Fatalf("got %v %v, want 90.5 true", fv, ok)
	}
}

func TestSplitTag(t *testing.T) {
	cases := []struct {
		in, handle, suffix string
	}{
		{"!!str", "!!", "str"},
		{"!local", "!", "local"},
		{"!h!suffix", "!h!", "suffix"},
		{"plain", "", "plain"},
	}
	for _, c := range cases {
		h, s := SplitTag(c.in)
		if h != c.handle || s != c.suffix {
			t.Errorf("SplitTag(%q) = (%q,%q), want (%q,%q)", c.in, h, s, c.handle, c.suffix)
		}
	}
}

func TestHandleTableResolve(t *testing.T) {
	ht := NewHandleTable()
	if got := ht.Resolve("!!", "str"); got != "tag:yaml.org,2002:str" {
		t.Fatalf("got %q", got)
	}
	ht.Bind("!e!", "tag:example.com,2000:app/")
	if got := ht.Resolve("!e!", "foo"); got != "tag:example.com,2000:app/foo" {
		t.Fatalf("got %q", got)
	}
}

func TestExpansionTrackerCycle(t *testing.T) {
	tr := NewExpansionTracker()
	tr.RegisterAnchorWithRefs("a", 1, []string{"b"})
	tr.RegisterAnchorWithRefs("b", 1, []string{"a"})
	_, err := tr.ComputeExpansion("a", 0)
	if err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestExpansionTrackerLimit(t *testing.T) {
	tr := NewExpansionTracker()
	tr.RegisterAnchor("big", 20000)
	err := tr.ApplyAlias("big", 10000)
	if err == nil {
		t.Fatal("expected limit error")
	}
}

func TestExpansionTrackerTransitive(t *testing.T) {
	tr := NewExpansionTracker()
	tr.RegisterAnchor("leaf", 2)
	tr.RegisterAnchorWithRefs("mid", 1, []string{"leaf"})
	size, err := tr.ComputeExpansion("mid", 0)
	if err != nil || size != 3 {
		t.Fatalf("size=%d err=%v, want 3 nil", size, err)
	}
}

func TestDecodeBinary(t *testing.T) {
	b, err := DecodeBinary("SGVsbG8=")
	if err != nil || string(b) != "Hello" {
		t.Fatalf("got %q err=%v", b, err)
	}
	// Whitespace inside the scalar is tolerated.
	b, err = DecodeBinary("SGVs\n  bG8=")
	if err != nil || string(b) != "Hello" {
		t.Fatalf("got %q err=%v", b, err)
	}
}

func TestValidateOmapDuplicate(t *testing.T) {
	if err := ValidateOmap([]string{"a", "b", "a"}); err == nil {
		t.Fatal("expected duplicate key error")
	}
	if err := ValidateOmap([]string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSet(t *testing.T) {
	if err := ValidateSet([]bool{true, true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateSet([]bool{true, false}); err == nil {
		t.Fatal("expected error for non-null value")
	}
}
