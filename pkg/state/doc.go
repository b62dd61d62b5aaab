// Package state defines persistence-facing contracts for loading and saving
// layered binding snapshots, plus a small resolver that merges stored layers
// into a single binding set ready to become a scope.
//
// Responsibilities:
//   - Store[T] only loads/saves a single snapshot for a single Ref.
//   - Resolver[T] loads snapshots for multiple layers (weakest first) and
//     merges them via the core layering primitives.
//   - The core engine stays persistence-agnostic; all persistence logic lives
//     behind Store implementations supplied by consumers.
//
// Data flow:
//
//	Store -> Resolver.Resolve -> merged bindings -> let.NewScope
//
// Deterministic keys:
//
//	Ref.Identifier() produces "<layer>/<domain>", so two stores loaded with
//	the same refs always agree on where a snapshot lives.
package state
