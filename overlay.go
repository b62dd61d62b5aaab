package let

import (
	"fmt"

	"github.com/google/uuid"
)

// applyOverlay installs the scope's storage into the frame and returns the
// reversal record. Classification happens against the frame's recognized name
// sets; every step is an in-memory slot or cell swap, so once the sets are in
// hand the operation cannot partially fail.
func applyOverlay(f Frame, s *Scope) (*RestoreRecord, error) {
	locals, captured, err := f.Names()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameAccess, err)
	}
	localSet := toNameSet(locals)
	capturedSet := toNameSet(captured)

	record := &RestoreRecord{ID: uuid.NewString()}
	layer := newFallthroughLayer()

	for _, name := range s.names {
		cell := s.cells[name]
		switch {
		case localSet[name]:
			// Plain value copy. This storage category cannot be captured
			// by a closure created later, so no aliasing is needed.
			prior, ok := f.Local(name)
			record.entries = append(record.entries, restoreEntry{
				name:       name,
				kind:       slotLocal,
				priorValue: prior,
				present:    ok,
			})
			if value, ok := cell.Get(); ok {
				f.SetLocal(name, value)
			} else {
				f.ClearLocal(name)
			}
		case capturedSet[name]:
			// Swap in the scope's own cell handle. A closure created
			// inside the extent links to scope-owned storage and keeps
			// observing it after revert.
			priorCell, ok := f.Captured(name)
			record.entries = append(record.entries, restoreEntry{
				name:      name,
				kind:      slotCaptured,
				priorCell: priorCell,
				present:   ok,
			})
			f.SetCaptured(name, cell)
		default:
			layer.bind(name, cell)
			record.entries = append(record.entries, restoreEntry{
				name: name,
				kind: slotFloating,
			})
		}
	}

	if layer.size() > 0 {
		f.Enclosing().Push(layer)
		record.layer = layer
	}
	record.Seq = f.Overlays().push()
	return record, nil
}

// revertOverlay undoes one applyOverlay. Nested overlays must revert in
// reverse apply order; an out-of-order revert fails closed and leaves the
// frame untouched.
func revertOverlay(f Frame, s *Scope, record *RestoreRecord) error {
	overlays := f.Overlays()
	top, ok := overlays.top()
	if !ok || top != record.Seq {
		return fmt.Errorf("%w: record %d is not the innermost overlay", ErrRevertOrder, record.Seq)
	}

	for _, entry := range record.entries {
		switch entry.kind {
		case slotLocal:
			// Harvest the slot first so writes made during the extent
			// land in scope-owned storage and are visible on the next
			// activation. A slot deleted mid-extent is not harvested.
			if current, ok := f.Local(entry.name); ok {
				s.cells[entry.name].Set(current)
			}
			if entry.present {
				f.SetLocal(entry.name, entry.priorValue)
			} else {
				f.ClearLocal(entry.name)
			}
		case slotCaptured:
			// The scope's cell keeps whatever was written through it;
			// only the frame's cell identity is restored.
			if entry.present {
				f.SetCaptured(entry.name, entry.priorCell)
			} else {
				f.ClearCaptured(entry.name)
			}
		case slotFloating:
			// Handled wholesale by popping the fallthrough layer.
		}
	}

	if record.layer != nil {
		f.Enclosing().Pop()
	}
	overlays.pop()
	return nil
}

func toNameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
