package let

import "sort"

// fallthroughLayer exposes a scope's cells for free-floating names as one
// extra mapping on the frame's enclosing lookup chain. Reads and writes go
// straight to the scope-owned cells, so mutations made through the chain
// survive the overlay and are visible when the scope is re-applied.
//
// Deleting a name empties its cell but the layer keeps owning the name:
// subsequent reads report the name unset instead of falling through to a
// weaker layer, until the whole layer is popped at revert.
type fallthroughLayer struct {
	cells map[string]*Cell
}

func newFallthroughLayer() *fallthroughLayer {
	return &fallthroughLayer{cells: map[string]*Cell{}}
}

func (l *fallthroughLayer) bind(name string, cell *Cell) {
	l.cells[name] = cell
}

func (l *fallthroughLayer) size() int {
	return len(l.cells)
}

func (l *fallthroughLayer) Get(name string) (any, bool) {
	cell, ok := l.cells[name]
	if !ok {
		return nil, false
	}
	return cell.Get()
}

func (l *fallthroughLayer) Set(name string, value any) {
	if cell, ok := l.cells[name]; ok {
		cell.Set(value)
	}
}

func (l *fallthroughLayer) Delete(name string) bool {
	cell, ok := l.cells[name]
	if !ok {
		return false
	}
	cell.Clear()
	return true
}

func (l *fallthroughLayer) Has(name string) bool {
	_, ok := l.cells[name]
	return ok
}

func (l *fallthroughLayer) Names() []string {
	names := make([]string, 0, len(l.cells))
	for name := range l.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
