package let

import (
	"reflect"
	"testing"
)

func TestMergeLayersStrongestWins(t *testing.T) {
	weak := map[string]any{"snack": "taco", "limit": 10}
	strong := map[string]any{"snack": "pizza"}

	merged := MergeLayers(weak, strong)
	want := map[string]any{"snack": "pizza", "limit": 10}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("expected %v, got %v", want, merged)
	}
}

func TestMergeLayersNestedMaps(t *testing.T) {
	weak := map[string]any{
		"notifications": map[string]any{
			"email": map[string]any{"enabled": false, "subject": "default"},
		},
	}
	strong := map[string]any{
		"notifications": map[string]any{
			"email": map[string]any{"enabled": true},
			"sms":   map[string]any{"enabled": true},
		},
	}

	merged := MergeLayers(weak, strong)
	notifications := merged["notifications"].(map[string]any)
	email := notifications["email"].(map[string]any)
	if email["enabled"] != true {
		t.Fatalf("expected strong override, got %v", email["enabled"])
	}
	if email["subject"] != "default" {
		t.Fatalf("expected weak key preserved, got %v", email["subject"])
	}
	if _, ok := notifications["sms"]; !ok {
		t.Fatal("expected strong-only key present")
	}
}

func TestMergeLayersScalarsReplaceWholesale(t *testing.T) {
	weak := map[string]any{"tags": []string{"a", "b"}}
	strong := map[string]any{"tags": []string{"c"}}

	merged := MergeLayers(weak, strong)
	if !reflect.DeepEqual(merged["tags"], []string{"c"}) {
		t.Fatalf("expected slice replaced, got %v", merged["tags"])
	}
}

func TestMergeLayersDetachedFromInputs(t *testing.T) {
	weak := map[string]any{"nested": map[string]any{"a": 1}}
	strong := map[string]any{"nested": map[string]any{"b": 2}}

	merged := MergeLayers(weak, strong)
	merged["nested"].(map[string]any)["a"] = 99

	if weak["nested"].(map[string]any)["a"] != 1 {
		t.Fatal("expected inputs untouched by merged mutations")
	}
}

func TestMergeLayersEmpty(t *testing.T) {
	if merged := MergeLayers[map[string]any](); merged != nil {
		t.Fatalf("expected zero value, got %v", merged)
	}
}

func TestCloneDeepCopies(t *testing.T) {
	source := map[string]any{
		"nested": map[string]any{"a": 1},
		"list":   []any{1, 2},
	}
	cloned := Clone(source)
	cloned["nested"].(map[string]any)["a"] = 99
	cloned["list"].([]any)[0] = 99

	if source["nested"].(map[string]any)["a"] != 1 {
		t.Fatal("expected nested map detached")
	}
	if source["list"].([]any)[0] != 1 {
		t.Fatal("expected slice detached")
	}
}
