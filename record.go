package let

// slotKind classifies how a frame stores one overlaid name.
type slotKind int

const (
	// slotLocal is ordinary storage the frame tracks directly. Values are
	// copied in and out; this category cannot be captured by closures.
	slotLocal slotKind = iota
	// slotCaptured is boxed storage shared with closures. Overlays swap the
	// cell handle, not the value.
	slotCaptured
	// slotFloating is a name the frame does not recognize at all; it rides
	// on the fallthrough layer for the overlay's extent.
	slotFloating
)

func (k slotKind) String() string {
	switch k {
	case slotLocal:
		return "local"
	case slotCaptured:
		return "captured"
	case slotFloating:
		return "floating"
	default:
		return "unknown"
	}
}

// restoreEntry remembers what one name held before the overlay touched it.
type restoreEntry struct {
	name string
	kind slotKind

	// prior state for slotLocal
	priorValue any
	// prior state for slotCaptured
	priorCell *Cell
	// whether the slot or cell existed before the overlay
	present bool
}

// RestoreRecord is the opaque reversal state produced by one Apply and
// consumed by exactly one matching Revert. The sequence number is allocated
// per frame and enforces LIFO ordering for nested overlays.
type RestoreRecord struct {
	// ID uniquely identifies this activation for tracing and audit events.
	ID string
	// Seq is the frame-local overlay sequence number.
	Seq uint64

	entries []restoreEntry
	layer   *fallthroughLayer
}

// Touched returns the overlaid names grouped by storage category, mostly for
// diagnostics and activity metadata.
func (r *RestoreRecord) Touched() map[string][]string {
	if r == nil {
		return nil
	}
	out := map[string][]string{}
	for _, entry := range r.entries {
		key := entry.kind.String()
		out[key] = append(out[key], entry.name)
	}
	return out
}
