package state

import (
	"context"
	"errors"
	"testing"
	"time"
)

type bindings = map[string]any

func seedStore(t *testing.T) *MemoryStore[bindings] {
	t.Helper()
	store := NewMemoryStore[bindings]()
	ctx := context.Background()

	if _, err := store.Save(ctx, Ref{Domain: "menu", Layer: "defaults"}, bindings{
		"snack": "water",
		"limit": 10,
	}, Meta{SnapshotID: "defaults-1"}); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if _, err := store.Save(ctx, Ref{Domain: "menu", Layer: "session"}, bindings{
		"snack": "popcorn",
	}, Meta{SnapshotID: "session-1", ETag: "v1"}); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	return store
}

func TestRefIdentifier(t *testing.T) {
	key, err := Ref{Domain: "menu", Layer: "session"}.Identifier()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "session/menu" {
		t.Fatalf("unexpected key %q", key)
	}

	if _, err := (Ref{Layer: "session"}).Identifier(); err == nil {
		t.Fatal("expected error for missing domain")
	}
	if _, err := (Ref{Domain: "menu"}).Identifier(); err == nil {
		t.Fatal("expected error for missing layer")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	snapshot, meta, ok, err := store.Load(ctx, Ref{Domain: "menu", Layer: "session"})
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if !ok {
		t.Fatal("expected stored snapshot")
	}
	if snapshot["snack"] != "popcorn" || meta.SnapshotID != "session-1" {
		t.Fatalf("unexpected snapshot %v meta %v", snapshot, meta)
	}

	_, _, ok, err = store.Load(ctx, Ref{Domain: "menu", Layer: "request"})
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%t err=%v", ok, err)
	}
}

func TestResolverMergesWeakestToStrongest(t *testing.T) {
	resolver := Resolver[bindings]{Store: seedStore(t)}

	merged, err := resolver.Resolve(context.Background(), "menu", "defaults", "session")
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if merged["snack"] != "popcorn" {
		t.Fatalf("expected session layer to win, got %v", merged["snack"])
	}
	if merged["limit"] != 10 {
		t.Fatalf("expected defaults key preserved, got %v", merged["limit"])
	}
}

func TestResolverSkipsMissingLayers(t *testing.T) {
	resolver := Resolver[bindings]{Store: seedStore(t)}

	merged, err := resolver.Resolve(context.Background(), "menu", "defaults", "request")
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if merged["snack"] != "water" {
		t.Fatalf("expected defaults only, got %v", merged["snack"])
	}
}

func TestResolverFailsWithoutAnyLayer(t *testing.T) {
	resolver := Resolver[bindings]{Store: NewMemoryStore[bindings]()}
	if _, err := resolver.Resolve(context.Background(), "menu", "defaults"); err == nil {
		t.Fatal("expected error when no layer exists")
	}
}

func TestResolveWithDefaults(t *testing.T) {
	resolver := Resolver[bindings]{Store: seedStore(t)}

	merged, err := resolver.ResolveWithDefaults(context.Background(), "menu",
		bindings{"snack": "crackers", "theme": "dark"},
		"session",
	)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if merged["snack"] != "popcorn" {
		t.Fatalf("expected stored layer to override defaults, got %v", merged["snack"])
	}
	if merged["theme"] != "dark" {
		t.Fatalf("expected defaults-only key preserved, got %v", merged["theme"])
	}

	empty := Resolver[bindings]{Store: NewMemoryStore[bindings]()}
	merged, err = empty.ResolveWithDefaults(context.Background(), "menu", bindings{"snack": "crackers"})
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if merged["snack"] != "crackers" {
		t.Fatalf("expected defaults when nothing stored, got %v", merged["snack"])
	}
}

func TestMutate(t *testing.T) {
	resolver := Resolver[bindings]{Store: seedStore(t)}
	ref := Ref{Domain: "menu", Layer: "session"}

	snapshot, meta, err := resolver.Mutate(context.Background(), ref, Meta{
		ETag:      "v1",
		UpdatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}, func(s *bindings) error {
		(*s)["snack"] = "nachos"
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected mutate error: %v", err)
	}
	if snapshot["snack"] != "nachos" {
		t.Fatalf("unexpected snapshot %v", snapshot)
	}
	if meta.SnapshotID != "session-1" {
		t.Fatalf("expected loaded metadata merged, got %v", meta)
	}

	stored, _, _, err := resolver.Store.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if stored["snack"] != "nachos" {
		t.Fatalf("expected mutation persisted, got %v", stored)
	}
}

func TestMutateETagMismatch(t *testing.T) {
	resolver := Resolver[bindings]{Store: seedStore(t)}
	ref := Ref{Domain: "menu", Layer: "session"}

	_, _, err := resolver.Mutate(context.Background(), ref, Meta{ETag: "stale"}, func(s *bindings) error {
		return nil
	})
	if !errors.Is(err, ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch, got %v", err)
	}
}

func TestMutatePropagatesMutatorError(t *testing.T) {
	resolver := Resolver[bindings]{Store: seedStore(t)}
	mutatorErr := errors.New("bad mutation")

	_, _, err := resolver.Mutate(context.Background(), Ref{Domain: "menu", Layer: "session"}, Meta{},
		func(*bindings) error { return mutatorErr })
	if !errors.Is(err, mutatorErr) {
		t.Fatalf("expected mutator error, got %v", err)
	}
}

type limits struct {
	Daily int
}

func (l limits) Validate() error {
	if l.Daily < 0 {
		return errors.New("daily limit must not be negative")
	}
	return nil
}

func TestMutateRunsSnapshotValidation(t *testing.T) {
	resolver := Resolver[limits]{Store: NewMemoryStore[limits]()}
	ref := Ref{Domain: "quota", Layer: "session"}

	if _, _, err := resolver.Mutate(context.Background(), ref, Meta{}, func(l *limits) error {
		l.Daily = -1
		return nil
	}); err == nil {
		t.Fatal("expected validation error, got nil")
	}

	if _, _, err := resolver.Mutate(context.Background(), ref, Meta{}, func(l *limits) error {
		l.Daily = 5
		return nil
	}); err != nil {
		t.Fatalf("unexpected mutate error: %v", err)
	}
}

func TestResolveScope(t *testing.T) {
	resolver := Resolver[bindings]{Store: seedStore(t)}

	scope, err := ResolveScope(context.Background(), resolver, "menu", nil, "defaults", "session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.Label() != "menu" {
		t.Fatalf("expected domain as label, got %q", scope.Label())
	}
	if value, _ := scope.Value("snack"); value != "popcorn" {
		t.Fatalf("expected merged binding, got %v", value)
	}
	if value, _ := scope.Value("limit"); value != 10 {
		t.Fatalf("expected defaults binding, got %v", value)
	}
}
