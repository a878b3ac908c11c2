package expr

// Cache memoizes parsed expressions by source text.
// Not safe for concurrent use; the evaluator is single threaded.
type Cache struct {
	parsed map[string]Expr
}

// NewCache creates an empty expression cache
func NewCache() *Cache {
	return &Cache{parsed: make(map[string]Expr)}
}

// Parse returns the cached AST for src, parsing it on first use.
// Parse errors are not cached.
func (c *Cache) Parse(src string) (Expr, error) {
	if e, ok := c.parsed[src]; ok {
		return e, nil
	}
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	c.parsed[src] = e
	return e, nil
}

// Len returns the number of memoized expressions
func (c *Cache) Len() int {
	return len(c.parsed)
}
