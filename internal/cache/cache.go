// Package cache provides a per-instance memoization container for derived
// values that are expensive to compute and requested repeatedly.
//
// A Cache is created with the full set of slot names its owner will ever
// ask for; requesting an undeclared slot is a programming error and panics.
// The cache is paired 1:1 with an immutable owning value, so a stored
// result can never go stale: cache lifetime equals data lifetime.
//
// Cache is not safe for concurrent use. Owners live on a single logical
// thread and never share their cache.
package cache

import "fmt"

type entry struct {
	value any
	done  bool
}

// Cache memoizes named derived values. Each slot is computed at most once.
type Cache struct {
	slots map[string]entry
}

// New returns a cache accepting exactly the given slot names.
func New(slots ...string) *Cache {
	m := make(map[string]entry, len(slots))
	for _, name := range slots {
		m[name] = entry{}
	}
	return &Cache{slots: m}
}

// Get returns the memoized value for slot, invoking compute and storing its
// result on first access only. Get panics if slot was not declared in New.
func (c *Cache) Get(slot string, compute func() any) any {
	e, ok := c.slots[slot]
	if !ok {
		panic(fmt.Sprintf("cache: slot %q was not declared at construction", slot))
	}
	if !e.done {
		e = entry{value: compute(), done: true}
		c.slots[slot] = e
	}
	return e.value
}

// GetAs is a typed convenience wrapper around Get.
func GetAs[T any](c *Cache, slot string, compute func() T) T {
	return c.Get(slot, func() any { return compute() }).(T)
}
