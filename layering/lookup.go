package let

import "sort"

// Mapping is one layer of named bindings inside a lookup chain.
//
// A mapping distinguishes owning a name from holding a value for it: Has
// reports ownership, Get reports the current value. An owned name whose value
// has been deleted keeps shadowing weaker layers, so a chained read stops at
// the owner and reports the name as unset rather than falling through.
type Mapping interface {
	// Get returns the current value for name and whether one is set.
	Get(name string) (any, bool)
	// Set stores value under name.
	Set(name string, value any)
	// Delete removes the value for name. The mapping still owns the name.
	Delete(name string) bool
	// Has reports whether the mapping owns name.
	Has(name string) bool
	// Names returns the owned names in no particular order.
	Names() []string
}

// Layer is a map-backed Mapping. The zero value is not usable; construct via
// NewLayer.
type Layer struct {
	values  map[string]any
	deleted map[string]struct{}
}

// NewLayer builds a Layer owning the supplied values. The map is copied so the
// layer stays detached from the caller's reference.
func NewLayer(values map[string]any) *Layer {
	copied := make(map[string]any, len(values))
	for name, value := range values {
		copied[name] = value
	}
	return &Layer{values: copied, deleted: map[string]struct{}{}}
}

func (l *Layer) Get(name string) (any, bool) {
	if _, gone := l.deleted[name]; gone {
		return nil, false
	}
	value, ok := l.values[name]
	return value, ok
}

func (l *Layer) Set(name string, value any) {
	delete(l.deleted, name)
	l.values[name] = value
}

func (l *Layer) Delete(name string) bool {
	if !l.Has(name) {
		return false
	}
	l.deleted[name] = struct{}{}
	return true
}

func (l *Layer) Has(name string) bool {
	if _, gone := l.deleted[name]; gone {
		return true
	}
	_, ok := l.values[name]
	return ok
}

func (l *Layer) Names() []string {
	names := make([]string, 0, len(l.values))
	for name := range l.values {
		names = append(names, name)
	}
	return names
}

// Chain is an ordered stack of mappings resolved top (most recently pushed)
// to bottom. Reads stop at the first mapping that owns the name; writes and
// deletes are routed to that same owner.
type Chain struct {
	layers []Mapping
}

// NewChain builds a chain from bottom to top: the last argument becomes the
// strongest layer.
func NewChain(layers ...Mapping) *Chain {
	chain := &Chain{}
	for _, layer := range layers {
		if layer != nil {
			chain.layers = append(chain.layers, layer)
		}
	}
	return chain
}

// Push appends mapping as the new strongest layer.
func (c *Chain) Push(mapping Mapping) {
	if mapping == nil {
		return
	}
	c.layers = append(c.layers, mapping)
}

// Pop removes and returns the strongest layer, or nil when the chain is empty.
func (c *Chain) Pop() Mapping {
	if len(c.layers) == 0 {
		return nil
	}
	top := c.layers[len(c.layers)-1]
	c.layers = c.layers[:len(c.layers)-1]
	return top
}

// At returns the mapping at depth from the top (0 = strongest), or nil when
// depth is out of range.
func (c *Chain) At(depth int) Mapping {
	if c == nil || depth < 0 || depth >= len(c.layers) {
		return nil
	}
	return c.layers[len(c.layers)-1-depth]
}

// Len returns the number of layers.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.layers)
}

// Get resolves name against the strongest owning layer. An owned name with no
// value reports (nil, false) without consulting weaker layers.
func (c *Chain) Get(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if c.layers[i].Has(name) {
			return c.layers[i].Get(name)
		}
	}
	return nil, false
}

// Set writes value into the strongest layer owning name. It reports false when
// no layer owns the name.
func (c *Chain) Set(name string, value any) bool {
	if c == nil {
		return false
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if c.layers[i].Has(name) {
			c.layers[i].Set(name, value)
			return true
		}
	}
	return false
}

// Delete removes the value from the strongest layer owning name.
func (c *Chain) Delete(name string) bool {
	if c == nil {
		return false
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if c.layers[i].Has(name) {
			return c.layers[i].Delete(name)
		}
	}
	return false
}

// Has reports whether any layer owns name.
func (c *Chain) Has(name string) bool {
	if c == nil {
		return false
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if c.layers[i].Has(name) {
			return true
		}
	}
	return false
}

// Names returns the union of owned names, sorted, with duplicates removed.
func (c *Chain) Names() []string {
	if c == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var names []string
	for _, layer := range c.layers {
		for _, name := range layer.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Flatten materialises the chain into a plain map honouring layer precedence:
// values set by stronger layers win, owned-but-unset names are omitted.
func (c *Chain) Flatten() map[string]any {
	out := map[string]any{}
	if c == nil {
		return out
	}
	for _, name := range c.Names() {
		if value, ok := c.Get(name); ok {
			out[name] = value
		}
	}
	return out
}
