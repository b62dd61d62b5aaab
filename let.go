// Package let overlays named bindings onto a live interpreter call frame for
// a bounded extent. Code running inside the extent observes the overlay's
// values, writes land in overlay-owned storage, and reverting restores the
// frame's prior bindings exactly. Closures created inside the extent that
// capture an overlaid name keep observing the overlay's storage afterwards.
//
// The engine consumes an explicit Frame abstraction supplied by the host
// runtime; it never inspects the Go call stack. A reference host lives in
// pkg/host.
package let

import "errors"

// With applies scope to f, runs body, and reverts unconditionally once the
// apply succeeded, including when body fails or panics. A body error is never
// suppressed; a revert failure is joined onto it.
func With(f Frame, scope *Scope, body func() error) (err error) {
	if _, applyErr := scope.Apply(f); applyErr != nil {
		return applyErr
	}
	defer func() {
		if revertErr := scope.Revert(f); revertErr != nil {
			if err != nil {
				err = errors.Join(err, revertErr)
				return
			}
			err = revertErr
		}
	}()
	if body == nil {
		return nil
	}
	return body()
}

// Let constructs a throwaway scope from bindings and runs body under it.
func Let(f Frame, bindings map[string]any, body func() error) error {
	scope, err := NewScope(bindings)
	if err != nil {
		return err
	}
	return With(f, scope, body)
}
