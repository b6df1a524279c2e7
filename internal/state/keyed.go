package state

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// Keyed is a map that serializes as an ordered list of key/value pairs so
// saved documents are portable and diff cleanly.
type Keyed[K cmp.Ordered, V any] map[K]V

type pair[K cmp.Ordered, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Keys returns the map keys in ascending order.
func (m Keyed[K, V]) Keys() []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a shallow copy of the map. Values are copied by assignment.
func (m Keyed[K, V]) Clone() Keyed[K, V] {
	if m == nil {
		return nil
	}
	out := make(Keyed[K, V], len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the map as [{"key":..,"value":..}] sorted by key.
func (m Keyed[K, V]) MarshalJSON() ([]byte, error) {
	pairs := make([]pair[K, V], 0, len(m))
	for _, k := range m.Keys() {
		pairs = append(pairs, pair[K, V]{Key: k, Value: m[k]})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON reads the ordered pair form. Older object-shaped maps are
// converted by the persistence migrations before decoding reaches here.
func (m *Keyed[K, V]) UnmarshalJSON(data []byte) error {
	var pairs []pair[K, V]
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("keyed map: %w", err)
	}
	out := make(Keyed[K, V], len(pairs))
	for _, p := range pairs {
		out[p.Key] = p.Value
	}
	*m = out
	return nil
}
