package let

import (
	"context"

	"github.com/goliatone/go-let/pkg/activity"
)

// WithActivityHooks attaches activity hooks notified on every successful
// apply and revert. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) ScopeOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *scopeConfig) {
		cfg.hooks = normalized
	}
}

// ActivityHooks returns a cloned slice of the hooks configured on the scope.
func (s *Scope) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return cloneActivityHooks(s.cfg.hooks)
}

func (s *Scope) emitOverlayEvent(verb string, record *RestoreRecord) {
	if !s.cfg.hooks.Enabled() || record == nil {
		return
	}
	input := activity.OverlayEventInput{
		Scope: activity.ScopeContext{
			ID:       s.id,
			Label:    s.cfg.label,
			Bindings: s.Names(),
			RecordID: record.ID,
			Seq:      record.Seq,
		},
	}
	var event activity.Event
	switch verb {
	case activity.VerbOverlayReverted:
		event = activity.BuildOverlayRevertedEvent(input)
	default:
		event = activity.BuildOverlayAppliedEvent(input)
	}
	// Hook failures never fail the overlay; they surface through the hooks
	// themselves.
	_ = s.cfg.hooks.Notify(context.Background(), event)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
