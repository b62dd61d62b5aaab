package let

// Cell is a boxed unit of storage shared by every holder of the handle: the
// owning Scope, any frame it is installed into, and any closure that captured
// it. Aliasing the handle rather than copying the value is what lets all of
// them observe the same mutable state.
//
// A cell can be empty. Reading an empty cell reports absence instead of a
// zero value so deletion can be told apart from storing nil.
type Cell struct {
	value   any
	present bool
}

// NewCell returns a cell holding value.
func NewCell(value any) *Cell {
	return &Cell{value: value, present: true}
}

// NewEmptyCell returns a cell with no value set.
func NewEmptyCell() *Cell {
	return &Cell{}
}

// Get returns the stored value and whether one is present.
func (c *Cell) Get() (any, bool) {
	if c == nil || !c.present {
		return nil, false
	}
	return c.value, true
}

// Set stores value in the cell.
func (c *Cell) Set(value any) {
	c.value = value
	c.present = true
}

// Clear empties the cell.
func (c *Cell) Clear() {
	c.value = nil
	c.present = false
}

// Present reports whether the cell holds a value.
func (c *Cell) Present() bool {
	return c != nil && c.present
}
