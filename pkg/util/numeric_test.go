package util

import (
	"math"
	"testing"
)

func TestToFloatPlaceholders(t *testing.T) {
	for _, s := range []string{"NA", "na", "", "nan", "NaN", "  Na  "} {
		if _, ok := ToFloat(s); ok {
			t.Fatalf("expected miss for %q", s)
		}
	}
}

func TestToFloatCommasAndWhitespace(t *testing.T) {
	got, ok := ToFloat(" 1,234.50 ")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 1234.5 {
		t.Fatalf("unexpected value %v", got)
	}
}

func TestToFloatNumbers(t *testing.T) {
	if got, ok := ToFloat(float64(42.5)); !ok || got != 42.5 {
		t.Fatalf("float64: got %v ok=%v", got, ok)
	}
	if got, ok := ToFloat(7); !ok || got != 7 {
		t.Fatalf("int: got %v ok=%v", got, ok)
	}
	if _, ok := ToFloat(math.NaN()); ok {
		t.Fatalf("expected miss for NaN")
	}
	if _, ok := ToFloat(math.Inf(1)); ok {
		t.Fatalf("expected miss for Inf")
	}
}

func TestToFloatGarbage(t *testing.T) {
	if _, ok := ToFloat("not a number"); ok {
		t.Fatalf("expected miss for garbage string")
	}
	if _, ok := ToFloat(nil); ok {
		t.Fatalf("expected miss for nil")
	}
	if _, ok := ToFloat([]string{"x"}); ok {
		t.Fatalf("expected miss for unsupported type")
	}
}

func TestToFloatPtr(t *testing.T) {
	if p := ToFloatPtr("na"); p != nil {
		t.Fatalf("expected nil pointer")
	}
	p := ToFloatPtr("3.14")
	if p == nil || *p != 3.14 {
		t.Fatalf("unexpected pointer %v", p)
	}
}
