package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	let "github.com/goliatone/go-let"
	layering "github.com/goliatone/go-let/layering"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted binding snapshot: a domain (the binding set)
// and a layer (how strongly it applies when merged).
type Ref struct {
	Domain string
	Layer  string
}

// Meta is storage-owned metadata used for trace/audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one snapshot for a single ref.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Resolver loads layered snapshots and merges them into one binding set.
type Resolver[T any] struct {
	Store Store[T]
}

type Mutator[T any] func(*T) error

// Validator is implemented by snapshots that know how to check themselves
// before persistence.
type Validator interface {
	Validate() error
}

func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	if r.Layer == "" {
		return "", fmt.Errorf("state: layer is required")
	}
	return fmt.Sprintf("%s/%s", r.Layer, r.Domain), nil
}

// Resolve loads the named layers for domain, weakest first, and merges them:
// stronger layers override weaker ones, maps merge key-wise. Missing layers
// are skipped; resolving a domain with no stored layer at all is an error.
func (r Resolver[T]) Resolve(ctx context.Context, domain string, layers ...string) (T, error) {
	var zero T
	if r.Store == nil {
		return zero, fmt.Errorf("state: store is required")
	}
	if domain == "" {
		return zero, fmt.Errorf("state: domain is required")
	}
	if len(layers) == 0 {
		return zero, fmt.Errorf("state: at least one layer is required")
	}

	snapshots := make([]T, 0, len(layers))
	for _, layer := range layers {
		snapshot, _, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Layer: layer})
		if err != nil {
			return zero, fmt.Errorf("state: load %q layer %q: %w", domain, layer, err)
		}
		if !ok {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	if len(snapshots) == 0 {
		return zero, fmt.Errorf("state: no layers found for domain %q", domain)
	}
	return layering.MergeLayers(snapshots...), nil
}

// ResolveWithDefaults merges defaults as the weakest layer under the stored
// ones, so a domain with no stored layers still resolves.
func (r Resolver[T]) ResolveWithDefaults(ctx context.Context, domain string, defaults T, layers ...string) (T, error) {
	var zero T
	if r.Store == nil {
		return zero, fmt.Errorf("state: store is required")
	}
	if domain == "" {
		return zero, fmt.Errorf("state: domain is required")
	}

	snapshots := make([]T, 0, len(layers)+1)
	snapshots = append(snapshots, layering.Clone(defaults))
	for _, layer := range layers {
		snapshot, _, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Layer: layer})
		if err != nil {
			return zero, fmt.Errorf("state: load %q layer %q: %w", domain, layer, err)
		}
		if !ok {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return layering.MergeLayers(snapshots...), nil
}

// Mutate loads one snapshot, applies fn, validates, then saves. A non-empty
// ETag on meta must match the stored ETag or the mutation fails closed.
func (r Resolver[T]) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator[T]) (T, Meta, error) {
	var zero T
	if r.Store == nil {
		return zero, Meta{}, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return zero, Meta{}, err
	}
	if fn == nil {
		return zero, Meta{}, fmt.Errorf("state: mutator is required")
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return zero, Meta{}, fmt.Errorf("state: load %q layer %q: %w", ref.Domain, ref.Layer, err)
	}
	if !ok {
		snapshot = zero
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return zero, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(&snapshot); err != nil {
		return zero, loadedMeta, err
	}

	if validator, ok := any(snapshot).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return zero, loadedMeta, err
		}
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	savedMeta, err := r.Store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return zero, loadedMeta, fmt.Errorf("state: save %q layer %q: %w", ref.Domain, ref.Layer, err)
	}
	return snapshot, savedMeta, nil
}

// ResolveScope resolves a map-shaped domain and packages the merged bindings
// as a scope ready to overlay, labeled after the domain.
func ResolveScope(ctx context.Context, resolver Resolver[map[string]any], domain string, opts []let.ScopeOption, layers ...string) (*let.Scope, error) {
	bindings, err := resolver.Resolve(ctx, domain, layers...)
	if err != nil {
		return nil, err
	}
	options := make([]let.ScopeOption, 0, len(opts)+1)
	options = append(options, let.WithScopeLabel(domain))
	options = append(options, opts...)
	return let.NewScope(bindings, options...)
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
