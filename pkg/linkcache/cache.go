package linkcache

// Entry is one key/value pair of a Cache
type Entry struct {
	Key   string
	Value Value
}

// Cache is an insertion-ordered key/value store
type Cache struct {
	keys   []string
	values map[string]Value
}

// New creates an empty cache
func New() *Cache {
	return &Cache{values: make(map[string]Value)}
}

// FromEntries builds a cache from entries in order. Later duplicates win
// but keep the position of the first occurrence.
func FromEntries(entries ...Entry) *Cache {
	c := New()
	for _, e := range entries {
		c.Set(e.Key, e.Value)
	}
	return c
}

// Set stores v under key. An existing key keeps its position.
func (c *Cache) Set(key string, v Value) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v.Clone()
}

// Append adds tokens to the list under key, creating it when absent.
// A scalar under key is replaced by a list.
func (c *Cache) Append(key string, tokens ...string) {
	v, ok := c.values[key]
	if !ok {
		c.keys = append(c.keys, key)
	}
	if !ok || v.Scalar {
		v = List()
	}
	v.Tokens = append(v.Tokens, tokens...)
	c.values[key] = v
}

// Get returns the value stored under key
func (c *Cache) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	if !ok {
		return Value{}, false
	}
	return v.Clone(), true
}

// Has reports whether key is present
func (c *Cache) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Delete removes key
func (c *Cache) Delete(key string) {
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order
func (c *Cache) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of entries
func (c *Cache) Len() int {
	return len(c.keys)
}

// Entries returns all entries in insertion order
func (c *Cache) Entries() []Entry {
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Entry{Key: k, Value: c.values[k].Clone()})
	}
	return out
}

// Clone returns a deep copy of c
func (c *Cache) Clone() *Cache {
	return FromEntries(c.Entries()...)
}

// Equal reports whether both caches hold the same entries in the same order
func (c *Cache) Equal(o *Cache) bool {
	if c.Len() != o.Len() {
		return false
	}
	for i, k := range c.keys {
		if o.keys[i] != k || !c.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}
