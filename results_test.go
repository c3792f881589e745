package hflow_test

import (
	"math"
	"testing"

	"github.com/veggiemonk/hflow"
)

func TestResultsMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  hflow.Results
		src  hflow.Results
		want hflow.Results
	}{
		{
			name: "new key",
			dst:  hflow.Results{"a": 1},
			src:  hflow.Results{"b": "two"},
			want: hflow.Results{"a": 1, "b": "two"},
		},
		{
			name: "last write wins",
			dst:  hflow.Results{"a": 1},
			src:  hflow.Results{"a": 2},
			want: hflow.Results{"a": 2},
		},
		{
			name: "falsy values are recorded",
			dst:  hflow.Results{},
			src:  hflow.Results{"f": false, "z": 0, "s": ""},
			want: hflow.Results{"f": false, "z": 0, "s": ""},
		},
		{
			name: "nested maps merge",
			dst:  hflow.Results{"cfg": map[string]any{"a": 1, "b": 1}},
			src:  hflow.Results{"cfg": map[string]any{"b": 2, "c": 3}},
			want: hflow.Results{"cfg": map[string]any{"a": 1, "b": 2, "c": 3}},
		},
		{
			name: "nested map into new key",
			dst:  hflow.Results{},
			src:  hflow.Results{"cfg": map[string]any{"a": 1}},
			want: hflow.Results{"cfg": map[string]any{"a": 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.dst.Merge(tt.src); err != nil {
				t.Fatal(err)
			}
			if diff := Diff(tt.dst, tt.want); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestResultsMergeIntoNil(t *testing.T) {
	var r hflow.Results
	if err := r.Merge(hflow.Results{"a": 1}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestResultsInt(t *testing.T) {
	r := hflow.Results{
		"int":      3,
		"int64":    int64(-4),
		"uint8":    uint8(5),
		"float":    6.0,
		"overflow": uint64(math.MaxUint64),
		"text":     "7",
	}
	for key, want := range map[string]int{"int": 3, "int64": -4, "uint8": 5, "float": 6} {
		got, err := r.Int(key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if got != want {
			t.Fatalf("%s: got %d, want %d", key, got, want)
		}
	}
	for _, key := range []string{"overflow", "text", "missing"} {
		if _, err := r.Int(key); err == nil {
			t.Fatalf("%s: expected an error", key)
		}
	}
}

func TestResultsAccessors(t *testing.T) {
	r := hflow.Results{"b": "text", "a": 1}
	r.Set("c", []int{1})

	if diff := Diff(r.Keys(), []string{"a", "b", "c"}); diff != "" {
		t.Fatal(diff)
	}
	if v, ok := r.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
	if s, ok := r.GetString("b"); !ok || s != "text" {
		t.Fatalf("GetString(b) = %q, %v", s, ok)
	}
	if _, ok := r.GetString("a"); ok {
		t.Fatal("GetString(a) accepted an int")
	}
	if v, ok := hflow.Lookup[[]int](r, "c"); !ok || len(v) != 1 {
		t.Fatalf("Lookup(c) = %v, %v", v, ok)
	}

	clone := r.Clone()
	clone.Set("a", 2)
	if r["a"] != 1 {
		t.Fatal("Clone shares storage")
	}
}
