package host

import (
	"fmt"
	"sort"

	let "github.com/goliatone/go-let"
	layering "github.com/goliatone/go-let/layering"
)

// CallFrame is a reference frame implementation for embedding runtimes. It
// recognizes a fixed set of plain local and captured names, resolves anything
// else through an enclosing lookup chain, and owns its overlay bookkeeping.
//
// The recognized name sets are fixed at construction. Registering a name does
// not give it a value; a recognized name with an empty slot reads as
// undefined without falling through to the enclosing chain.
type CallFrame struct {
	localNames    map[string]struct{}
	capturedNames map[string]struct{}

	locals    map[string]any
	cells     map[string]*let.Cell
	enclosing *layering.Chain
	overlays  let.OverlayState
}

// FrameOption configures a CallFrame at construction.
type FrameOption func(*CallFrame)

// WithLocals registers plain local names with initial values.
func WithLocals(values map[string]any) FrameOption {
	return func(f *CallFrame) {
		for name, value := range values {
			f.localNames[name] = struct{}{}
			f.locals[name] = value
		}
	}
}

// WithLocalNames registers plain local names with empty slots.
func WithLocalNames(names ...string) FrameOption {
	return func(f *CallFrame) {
		for _, name := range names {
			f.localNames[name] = struct{}{}
		}
	}
}

// WithCaptured registers captured names, each boxed into a fresh cell holding
// the supplied value.
func WithCaptured(values map[string]any) FrameOption {
	return func(f *CallFrame) {
		for name, value := range values {
			f.capturedNames[name] = struct{}{}
			f.cells[name] = let.NewCell(value)
		}
	}
}

// WithCapturedNames registers captured names without installing a cell.
func WithCapturedNames(names ...string) FrameOption {
	return func(f *CallFrame) {
		for _, name := range names {
			f.capturedNames[name] = struct{}{}
		}
	}
}

// WithEnclosing stacks mappings under the frame, weakest first.
func WithEnclosing(layers ...layering.Mapping) FrameOption {
	return func(f *CallFrame) {
		for _, layer := range layers {
			f.enclosing.Push(layer)
		}
	}
}

// NewCallFrame builds a frame with empty name sets and an empty enclosing
// chain, then applies the options.
func NewCallFrame(opts ...FrameOption) *CallFrame {
	frame := &CallFrame{
		localNames:    map[string]struct{}{},
		capturedNames: map[string]struct{}{},
		locals:        map[string]any{},
		cells:         map[string]*let.Cell{},
		enclosing:     layering.NewChain(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(frame)
		}
	}
	return frame
}

func (f *CallFrame) Names() ([]string, []string, error) {
	return setToSorted(f.localNames), setToSorted(f.capturedNames), nil
}

func (f *CallFrame) Local(name string) (any, bool) {
	value, ok := f.locals[name]
	return value, ok
}

func (f *CallFrame) SetLocal(name string, value any) {
	if _, ok := f.localNames[name]; !ok {
		return
	}
	f.locals[name] = value
}

func (f *CallFrame) ClearLocal(name string) {
	delete(f.locals, name)
}

func (f *CallFrame) Captured(name string) (*let.Cell, bool) {
	cell, ok := f.cells[name]
	return cell, ok
}

func (f *CallFrame) SetCaptured(name string, cell *let.Cell) {
	if _, ok := f.capturedNames[name]; !ok {
		return
	}
	f.cells[name] = cell
}

func (f *CallFrame) ClearCaptured(name string) {
	delete(f.cells, name)
}

func (f *CallFrame) Enclosing() *layering.Chain {
	return f.enclosing
}

func (f *CallFrame) Overlays() *let.OverlayState {
	return &f.overlays
}

// Resolve reads name the way the runtime would: local slot first, then the
// captured cell, then the enclosing chain. A recognized name with no value
// reports undefined rather than falling through.
func (f *CallFrame) Resolve(name string) (any, error) {
	if _, recognized := f.localNames[name]; recognized {
		if value, ok := f.locals[name]; ok {
			return value, nil
		}
		return nil, undefined(name)
	}
	if _, recognized := f.capturedNames[name]; recognized {
		if cell, ok := f.cells[name]; ok {
			if value, ok := cell.Get(); ok {
				return value, nil
			}
		}
		return nil, undefined(name)
	}
	if f.enclosing.Has(name) {
		if value, ok := f.enclosing.Get(name); ok {
			return value, nil
		}
		return nil, undefined(name)
	}
	return nil, undefined(name)
}

// Assign writes name through the same resolution order as Resolve. Assigning
// a captured name with no installed cell allocates one. It fails when neither
// the frame nor the enclosing chain recognizes the name.
func (f *CallFrame) Assign(name string, value any) error {
	if _, recognized := f.localNames[name]; recognized {
		f.locals[name] = value
		return nil
	}
	if _, recognized := f.capturedNames[name]; recognized {
		cell, ok := f.cells[name]
		if !ok {
			cell = let.NewEmptyCell()
			f.cells[name] = cell
		}
		cell.Set(value)
		return nil
	}
	if f.enclosing.Set(name, value) {
		return nil
	}
	return undefined(name)
}

// Delete empties the storage behind name. The name stays recognized, so a
// later read reports undefined instead of falling through.
func (f *CallFrame) Delete(name string) error {
	if _, recognized := f.localNames[name]; recognized {
		if _, ok := f.locals[name]; !ok {
			return undefined(name)
		}
		delete(f.locals, name)
		return nil
	}
	if _, recognized := f.capturedNames[name]; recognized {
		cell, ok := f.cells[name]
		if !ok || !cell.Present() {
			return undefined(name)
		}
		cell.Clear()
		return nil
	}
	if f.enclosing.Delete(name) {
		return nil
	}
	return undefined(name)
}

// Closure snapshots the current cell handles for the named captured bindings,
// the way a nested function links to its free variables at creation time. The
// returned closure keeps reading and writing those exact cells even after the
// frame's handles are swapped back.
func (f *CallFrame) Closure(names ...string) (*Closure, error) {
	cells := make(map[string]*let.Cell, len(names))
	for _, name := range names {
		if _, recognized := f.capturedNames[name]; !recognized {
			return nil, fmt.Errorf("let: closure over non-captured name %q", name)
		}
		cell, ok := f.cells[name]
		if !ok {
			return nil, undefined(name)
		}
		cells[name] = cell
	}
	return &Closure{cells: cells}, nil
}

// Closure holds cell handles captured at creation time.
type Closure struct {
	cells map[string]*let.Cell
}

// Get reads a captured binding through the cell linked at creation.
func (c *Closure) Get(name string) (any, error) {
	cell, ok := c.cells[name]
	if !ok {
		return nil, undefined(name)
	}
	value, ok := cell.Get()
	if !ok {
		return nil, undefined(name)
	}
	return value, nil
}

// Set writes a captured binding through the cell linked at creation.
func (c *Closure) Set(name string, value any) error {
	cell, ok := c.cells[name]
	if !ok {
		return undefined(name)
	}
	cell.Set(value)
	return nil
}

func undefined(name string) error {
	return fmt.Errorf("%w: %q", let.ErrUndefinedName, name)
}

func setToSorted(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
