package let

import (
	"fmt"
	"sort"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/goliatone/go-let/pkg/activity"
)

// Scope owns a set of named bindings that can be overlaid onto a frame for a
// bounded extent. Each binding lives in its own shared cell, allocated once
// at construction; applying, reverting, and re-applying the scope reuses the
// same cells, so mutations made during one activation are observed by the
// next.
//
// A Scope may be active against at most one frame at a time. Use Alias to
// enter the same bindings again while the original is still active.
type Scope struct {
	id    string
	names []string
	cells map[string]*Cell

	active bool
	record *RestoreRecord

	cfg scopeConfig
}

// ScopeOption configures a Scope at construction.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	label        string
	logger       OverlayLogger
	hooks        activity.Hooks
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	evalLogger   EvaluatorLogger
}

// WithScopeLabel sets a human-friendly label used in errors, logs, and
// activity events.
func WithScopeLabel(label string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.label = label
	}
}

// NewScope allocates one fresh cell per binding. Every name must be a valid
// identifier; the only recognized configuration is the name→initial-value
// mapping plus the functional options.
func NewScope(bindings map[string]any, opts ...ScopeOption) (*Scope, error) {
	cfg := scopeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	names := make([]string, 0, len(bindings))
	cells := make(map[string]*Cell, len(bindings))
	for name, value := range bindings {
		if !ValidName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		names = append(names, name)
		cells[name] = NewCell(value)
	}
	sort.Strings(names)

	return &Scope{
		id:    uuid.NewString(),
		names: names,
		cells: cells,
		cfg:   cfg,
	}, nil
}

// ValidName reports whether name is a valid binding identifier: a letter or
// underscore followed by letters, digits, or underscores.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// ID returns the scope's unique identifier.
func (s *Scope) ID() string {
	return s.id
}

// Label returns the configured label, falling back to the identifier.
func (s *Scope) Label() string {
	if s.cfg.label != "" {
		return s.cfg.label
	}
	return s.id
}

// Names returns the bound names in sorted order.
func (s *Scope) Names() []string {
	return append([]string(nil), s.names...)
}

// Active reports whether the scope is currently installed against a frame.
func (s *Scope) Active() bool {
	return s.active
}

// Cell returns the shared storage cell for name.
func (s *Scope) Cell(name string) (*Cell, bool) {
	cell, ok := s.cells[name]
	return cell, ok
}

// Value reads the current value stored for name.
func (s *Scope) Value(name string) (any, bool) {
	cell, ok := s.cells[name]
	if !ok {
		return nil, false
	}
	return cell.Get()
}

// Alias returns a scope that shares this scope's cells but carries its own
// activation state, so it can be entered while the original is still active.
// Writes through either alias observe the same storage.
func (s *Scope) Alias() *Scope {
	return &Scope{
		id:    uuid.NewString(),
		names: append([]string(nil), s.names...),
		cells: s.cells,
		cfg:   s.cfg,
	}
}

// Apply overlays the scope's bindings onto f and returns the reversal record.
// It fails with ErrScopeInUse when the scope is already active elsewhere and
// with ErrFrameAccess when f cannot enumerate its recognized names; in both
// cases no slot is touched.
func (s *Scope) Apply(f Frame) (*RestoreRecord, error) {
	start := time.Now()
	record, err := s.apply(f)
	event := OverlayLogEvent{
		Op:       "apply",
		Scope:    s.Label(),
		Bindings: len(s.names),
		Duration: time.Since(start),
		Err:      err,
	}
	if record != nil {
		event.Seq = record.Seq
	}
	s.overlayLogger().LogOverlay(event)
	if err != nil {
		return nil, err
	}
	s.emitOverlayEvent(activity.VerbOverlayApplied, record)
	return record, nil
}

func (s *Scope) apply(f Frame) (*RestoreRecord, error) {
	if s.active {
		return nil, wrapOverlayError("apply", s.Label(), ErrScopeInUse)
	}
	record, err := applyOverlay(f, s)
	if err != nil {
		return nil, wrapOverlayError("apply", s.Label(), err)
	}
	s.active = true
	s.record = record
	return record, nil
}

// Revert undoes the overlay installed by the matching Apply, restoring the
// frame's prior bindings exactly. Mutations made to scope-owned cells during
// the extent are retained by the scope, not undone.
func (s *Scope) Revert(f Frame) error {
	start := time.Now()
	record := s.record
	err := s.revert(f)
	event := OverlayLogEvent{
		Op:       "revert",
		Scope:    s.Label(),
		Bindings: len(s.names),
		Duration: time.Since(start),
		Err:      err,
	}
	if record != nil {
		event.Seq = record.Seq
	}
	s.overlayLogger().LogOverlay(event)
	if err != nil {
		return err
	}
	s.emitOverlayEvent(activity.VerbOverlayReverted, record)
	return nil
}

func (s *Scope) revert(f Frame) error {
	if !s.active || s.record == nil {
		return wrapOverlayError("revert", s.Label(), ErrNoRecord)
	}
	if err := revertOverlay(f, s, s.record); err != nil {
		return wrapOverlayError("revert", s.Label(), err)
	}
	s.active = false
	s.record = nil
	return nil
}
