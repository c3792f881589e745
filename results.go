package hflow

import (
	"fmt"
	"maps"
	"slices"

	"dario.cat/mergo"
	"github.com/ccoveille/go-safecast"
)

// Results maps result names to the values recorded by steps.
//
// Values are merged with mergo: a later write to a key wins, and when both
// the recorded and the new value are maps, they are merged key by key.
// Steps record under one key each, so distinct names never interact.
type Results map[string]any

// Get returns the value recorded under key.
func (r Results) Get(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// Set records v under key, replacing any previous value.
func (r Results) Set(key string, v any) {
	r[key] = v
}

// Merge deep merges src into r. r must not be nil.
func (r Results) Merge(src Results) error {
	if r == nil {
		return fmt.Errorf("merge into nil results")
	}
	dst := map[string]any(r)
	if err := mergo.Merge(&dst, map[string]any(src), mergo.WithOverride); err != nil {
		return fmt.Errorf("merge results: %w", err)
	}
	return nil
}

// Keys returns the recorded names in sorted order.
func (r Results) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns a shallow copy of r.
func (r Results) Clone() Results {
	if r == nil {
		return Results{}
	}
	return maps.Clone(r)
}

// Int returns the value recorded under key as an int. Any integer or float
// value is accepted as long as it fits.
func (r Results) Int(key string) (int, error) {
	v, ok := r[key]
	if !ok {
		return 0, fmt.Errorf("result %q: not recorded", key)
	}
	var (
		n   int
		err error
	)
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		n, err = safecast.ToInt(x)
	case int16:
		n, err = safecast.ToInt(x)
	case int32:
		n, err = safecast.ToInt(x)
	case int64:
		n, err = safecast.ToInt(x)
	case uint:
		n, err = safecast.ToInt(x)
	case uint8:
		n, err = safecast.ToInt(x)
	case uint16:
		n, err = safecast.ToInt(x)
	case uint32:
		n, err = safecast.ToInt(x)
	case uint64:
		n, err = safecast.ToInt(x)
	case float32:
		n, err = safecast.ToInt(x)
	case float64:
		n, err = safecast.ToInt(x)
	default:
		return 0, fmt.Errorf("result %q: %T is not a number", key, v)
	}
	if err != nil {
		return 0, fmt.Errorf("result %q: %w", key, err)
	}
	return n, nil
}

// GetString returns the value recorded under key if it is a string.
func (r Results) GetString(key string) (string, bool) {
	return Lookup[string](r, key)
}

// Lookup returns the value recorded under key if it has type V.
func Lookup[V any](r Results, key string) (V, bool) {
	v, ok := r[key].(V)
	return v, ok
}
