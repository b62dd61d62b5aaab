package let

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-let/internal/hydrate"
)

// ScopeFromPayload builds a scope from an untyped payload, one binding per
// top-level key. Numbers survive as json.Number so integer bindings are not
// silently widened to float64. The name becomes the scope label unless an
// option overrides it.
func ScopeFromPayload(name string, payload map[string]any, opts ...ScopeOption) (*Scope, error) {
	decoder := hydrate.NewDecoder[map[string]any](hydrate.WithUseNumber[map[string]any]())
	bindings, err := decoder.Decode(hydrate.Context{Name: name, Source: "payload"}, payload)
	if err != nil {
		return nil, fmt.Errorf("let: hydrate scope %q: %w", name, err)
	}
	return newLabeledScope(name, bindings, opts)
}

// ScopeFromJSON builds a scope from a JSON object, one binding per top-level
// key.
func ScopeFromJSON(name string, raw []byte, opts ...ScopeOption) (*Scope, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("let: parse scope %q: %w", name, err)
	}
	decoder := hydrate.NewDecoder[map[string]any](hydrate.WithUseNumber[map[string]any]())
	bindings, err := decoder.Decode(hydrate.Context{Name: name, Source: "json"}, payload)
	if err != nil {
		return nil, fmt.Errorf("let: hydrate scope %q: %w", name, err)
	}
	return newLabeledScope(name, bindings, opts)
}

func newLabeledScope(name string, bindings map[string]any, opts []ScopeOption) (*Scope, error) {
	options := make([]ScopeOption, 0, len(opts)+1)
	if name != "" {
		options = append(options, WithScopeLabel(name))
	}
	options = append(options, opts...)
	return NewScope(bindings, options...)
}
