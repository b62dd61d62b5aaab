package let

import (
	"fmt"
	"sort"

	layering "github.com/goliatone/go-let/layering"
)

// Frame is the engine's view of one live call context. It is supplied by the
// embedding host runtime; the engine consumes it and never implements it.
//
// A frame statically recognizes two disjoint name sets, fixed for its
// lifetime: plain locals (ordinary storage that no nested function can
// capture) and captured names (storage boxed into cells because some nested
// function captures, or may capture, them). Every other name resolves through
// the enclosing lookup chain.
type Frame interface {
	// Names enumerates the recognized plain local and captured names. A
	// frame that cannot produce its sets returns an error and the overlay
	// fails before any slot is touched.
	Names() (locals []string, captured []string, err error)

	// Local reads the slot for a recognized plain local name, reporting
	// whether the slot currently holds a value.
	Local(name string) (any, bool)
	// SetLocal writes the slot for a recognized plain local name.
	SetLocal(name string, value any)
	// ClearLocal empties the slot for a recognized plain local name.
	ClearLocal(name string)

	// Captured returns the cell handle for a recognized captured name,
	// reporting whether a cell is currently installed.
	Captured(name string) (*Cell, bool)
	// SetCaptured installs cell as the storage for a recognized captured
	// name. This swaps identity, not contents.
	SetCaptured(name string, cell *Cell)
	// ClearCaptured removes the cell installed for a recognized captured
	// name.
	ClearCaptured(name string)

	// Enclosing returns the fallback lookup chain used for names the frame
	// does not recognize.
	Enclosing() *layering.Chain

	// Overlays returns the frame-owned overlay bookkeeping used to enforce
	// LIFO apply/revert ordering.
	Overlays() *OverlayState
}

// OverlayState tracks overlay sequencing for one frame. Each frame owns
// exactly one; there is no process-wide registry of active overlays. The zero
// value is ready to use.
type OverlayState struct {
	next   uint64
	active []uint64
}

// Depth returns the number of overlays currently applied to the frame.
func (s *OverlayState) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.active)
}

func (s *OverlayState) push() uint64 {
	s.next++
	s.active = append(s.active, s.next)
	return s.next
}

func (s *OverlayState) top() (uint64, bool) {
	if len(s.active) == 0 {
		return 0, false
	}
	return s.active[len(s.active)-1], true
}

func (s *OverlayState) pop() {
	if len(s.active) > 0 {
		s.active = s.active[:len(s.active)-1]
	}
}

// VisibleBindings flattens every binding visible from the frame into a plain
// map: plain locals and captured cells shadow the enclosing chain. Empty
// slots and empty cells are omitted.
func VisibleBindings(f Frame) (map[string]any, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: frame is nil", ErrFrameAccess)
	}
	locals, captured, err := f.Names()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameAccess, err)
	}

	bindings := f.Enclosing().Flatten()
	for _, name := range locals {
		if value, ok := f.Local(name); ok {
			bindings[name] = value
		} else {
			delete(bindings, name)
		}
	}
	for _, name := range captured {
		cell, ok := f.Captured(name)
		if !ok {
			delete(bindings, name)
			continue
		}
		if value, ok := cell.Get(); ok {
			bindings[name] = value
		} else {
			delete(bindings, name)
		}
	}
	return bindings, nil
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
