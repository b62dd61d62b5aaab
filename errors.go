package let

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName indicates a Scope was constructed with a binding name
	// that is not a valid identifier.
	ErrInvalidName = errors.New("let: binding name must be a valid identifier")
	// ErrScopeInUse indicates Apply was called on a Scope that is already
	// active against some frame.
	ErrScopeInUse = errors.New("let: scope is already active")
	// ErrFrameAccess indicates the frame could not enumerate its recognized
	// name sets. Raised before any slot is touched.
	ErrFrameAccess = errors.New("let: frame cannot enumerate recognized names")
	// ErrRevertOrder indicates nested overlays were reverted out of LIFO
	// order. The frame is left untouched.
	ErrRevertOrder = errors.New("let: overlays must revert in reverse apply order")
	// ErrNoRecord indicates Revert was called on a Scope with no matching
	// Apply.
	ErrNoRecord = errors.New("let: scope has no restore record")
	// ErrUndefinedName indicates a read of a name with no binding in the
	// frame, its closure cells, or the enclosing lookup chain.
	ErrUndefinedName = errors.New("let: name is not defined")
)

// OverlayError annotates an overlay failure with the operation and scope that
// produced it.
type OverlayError struct {
	Op    string
	Scope string
	Err   error
}

func (e *OverlayError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("let: %s scope=%s: %v", e.Op, describeScope(e.Scope), e.Err)
}

func (e *OverlayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeScope(label string) string {
	if label == "" {
		return "<anonymous>"
	}
	return label
}

func wrapOverlayError(op, scope string, err error) error {
	if err == nil {
		return nil
	}
	var overlayErr *OverlayError
	if errors.As(err, &overlayErr) {
		if overlayErr.Op == "" {
			overlayErr.Op = op
		}
		if overlayErr.Scope == "" {
			overlayErr.Scope = scope
		}
		return overlayErr
	}
	return &OverlayError{Op: op, Scope: scope, Err: err}
}
