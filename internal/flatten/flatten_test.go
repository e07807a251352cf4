package flatten

import (
	"reflect"
	"testing"
)

func TestFlatten_NestedObjects(t *testing.T) {
	input := map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": 2},
		},
	}

	got := Flatten(input, "")
	want := map[string]any{"a_b": 1, "a_c_d": 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFlatten_ArraysAreOpaque(t *testing.T) {
	input := map[string]any{
		"a": map[string]any{"b": []any{1, 2, 3}},
	}

	got := Flatten(input, "")
	if len(got) != 1 {
		t.Fatalf("expected 1 key, got %v", got)
	}
	arr, ok := got["a_b"].([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("expected opaque array under a_b, got %v", got["a_b"])
	}
}

func TestFlatten_PrefixApplied(t *testing.T) {
	got := Flatten(map[string]any{"x": 1}, "meta"+Separator)
	if got["meta_x"] != 1 {
		t.Fatalf("expected meta_x=1, got %v", got)
	}
}

func TestFlatten_EmptyAndNil(t *testing.T) {
	if got := Flatten(nil, ""); len(got) != 0 {
		t.Fatalf("expected empty map for nil input, got %v", got)
	}
	if got := Flatten(map[string]any{}, ""); len(got) != 0 {
		t.Fatalf("expected empty map for empty object, got %v", got)
	}
	// Empty nested objects contribute no keys.
	input := map[string]any{"a": map[string]any{}}
	if got := Flatten(input, ""); len(got) != 0 {
		t.Fatalf("expected empty map for empty nested object, got %v", got)
	}
}

func TestFlatten_ScalarWithoutPrefixDropped(t *testing.T) {
	// A bare scalar has no path to name it under.
	if got := Flatten(42, ""); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestRemoveDuplicates(t *testing.T) {
	base := map[string]any{"x": 1}
	flat := map[string]any{"x": 5, "x_y": 2, "z": 3}

	got := RemoveDuplicates(base, flat)
	want := map[string]any{"z": 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRemoveDuplicates_PrefixMustBeSeparatorBounded(t *testing.T) {
	base := map[string]any{"x": 1}
	flat := map[string]any{"xy": 2}

	got := RemoveDuplicates(base, flat)
	if _, ok := got["xy"]; !ok {
		t.Fatalf("xy is not a descendant of x, must survive: %v", got)
	}
}
