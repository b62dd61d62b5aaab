package activity

import (
	"strings"
	"time"
)

// ScopeContext captures scope metadata associated with one overlay
// activation.
type ScopeContext struct {
	ID       string
	Label    string
	Bindings []string
	RecordID string
	Seq      uint64
}

// OverlayEventInput describes the common fields for overlay lifecycle
// events.
type OverlayEventInput struct {
	ActorID    string
	Channel    string
	Metadata   map[string]any
	Scope      ScopeContext
	OccurredAt time.Time
}

// BuildOverlayAppliedEvent constructs a normalized activity event for an
// overlay application.
func BuildOverlayAppliedEvent(input OverlayEventInput) Event {
	return buildOverlayEvent(VerbOverlayApplied, input)
}

// BuildOverlayRevertedEvent constructs a normalized activity event for an
// overlay reversion.
func BuildOverlayRevertedEvent(input OverlayEventInput) Event {
	return buildOverlayEvent(VerbOverlayReverted, input)
}

func buildOverlayEvent(verb string, input OverlayEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Scope.Label != "" {
		metadata = ensureMetadata(metadata)
		metadata["scope_label"] = input.Scope.Label
	}
	if len(input.Scope.Bindings) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["bindings"] = append([]string{}, input.Scope.Bindings...)
	}
	if input.Scope.RecordID != "" {
		metadata = ensureMetadata(metadata)
		metadata["record_id"] = input.Scope.RecordID
	}
	if input.Scope.Seq > 0 {
		metadata = ensureMetadata(metadata)
		metadata["seq"] = input.Scope.Seq
	}

	objectID := strings.TrimSpace(input.Scope.ID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Scope.RecordID)
	}
	if objectID == "" {
		objectID = "scope"
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		ObjectType: "scope",
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
