package domain

import "testing"

func TestInternedString_Equality(t *testing.T) {
	a := NewInternedString("src/math.cppm")
	b := NewInternedString("src/math.cppm")
	c := NewInternedString("src/main.cpp")

	if a != b {
		t.Error("interned strings with equal content must be equal")
	}
	if a == c {
		t.Error("interned strings with different content must differ")
	}
	if a.String() != "src/math.cppm" {
		t.Errorf("expected 'src/math.cppm', got %q", a.String())
	}
}

func TestInternedString_ZeroValue(t *testing.T) {
	var zero InternedString
	if zero.String() != "" {
		t.Errorf("zero value must render as empty string, got %q", zero.String())
	}
}

func TestInternedString_TextRoundTrip(t *testing.T) {
	original := NewInternedString("module_cache/math.pcm")

	text, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var decoded InternedString
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip changed value: %q != %q", decoded.String(), original.String())
	}
}
