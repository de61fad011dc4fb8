package store

import "sort"

// Keyed is implemented by every entity held in a Collection.
type Keyed interface {
	Key() string
}

// Collection is a Store over a primary-key map. Every write that changes the
// map copies it so a state obtained from GetState is never modified afterwards.
// A write therefore costs O(n) in the collection size; callers batch values
// into one Upsert or Delete instead of looping. Writes that change nothing
// keep the current map.
type Collection[V Keyed] struct {
	*Store[map[string]V]
}

func NewCollection[V Keyed]() *Collection[V] {
	return &Collection[V]{Store: New(map[string]V{})}
}

// Upsert inserts or replaces each value by key.
func (c *Collection[V]) Upsert(values ...V) {
	if len(values) == 0 {
		return
	}
	c.SetState(func(cur map[string]V) map[string]V {
		next := clone(cur, len(values))
		for _, v := range values {
			next[v.Key()] = v
		}
		return next
	})
}

// Delete removes keys; missing keys are ignored.
func (c *Collection[V]) Delete(keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.SetState(func(cur map[string]V) map[string]V {
		if !containsAny(cur, keys) {
			return cur
		}
		next := clone(cur, 0)
		for _, k := range keys {
			delete(next, k)
		}
		return next
	})
}

// DeleteWhere removes every value matching pred.
func (c *Collection[V]) DeleteWhere(pred func(V) bool) {
	c.SetState(func(cur map[string]V) map[string]V {
		next := make(map[string]V, len(cur))
		for k, v := range cur {
			if !pred(v) {
				next[k] = v
			}
		}
		if len(next) == len(cur) {
			return cur
		}
		return next
	})
}

// Replace swaps in exactly the given values.
func (c *Collection[V]) Replace(values []V) {
	c.SetState(func(map[string]V) map[string]V {
		next := make(map[string]V, len(values))
		for _, v := range values {
			next[v.Key()] = v
		}
		return next
	})
}

func (c *Collection[V]) Reset() {
	c.Replace(nil)
}

func (c *Collection[V]) Get(key string) (V, bool) {
	v, ok := c.GetState()[key]
	return v, ok
}

func (c *Collection[V]) Len() int {
	return len(c.GetState())
}

// All returns every value ordered by key.
func (c *Collection[V]) All() []V {
	return Values(c.GetState())
}

// Filter returns matching values ordered by key.
func (c *Collection[V]) Filter(pred func(V) bool) []V {
	var out []V
	for _, v := range c.All() {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Values flattens a collection state into a key-ordered slice.
func Values[V any](state map[string]V) []V {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, state[k])
	}
	return out
}

func clone[V any](m map[string]V, extra int) map[string]V {
	next := make(map[string]V, len(m)+extra)
	for k, v := range m {
		next[k] = v
	}
	return next
}

func containsAny[V any](m map[string]V, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
