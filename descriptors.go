package let

import (
	"fmt"
	"sort"
)

// BindingDescriptor describes one visible binding and where it lives.
type BindingDescriptor struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Type   string `json:"type"`
	Set    bool   `json:"set"`
}

// BindingsDocument is a point-in-time description of every binding visible
// from a frame, suitable for diagnostics or JSON transport.
type BindingsDocument struct {
	Format   string              `json:"format"`
	Bindings []BindingDescriptor `json:"bindings"`
}

// FormatDescriptors identifies the flattened descriptor representation.
const FormatDescriptors = "descriptors"

// DescribeFrame derives binding descriptors for every name visible from f:
// recognized locals, captured cells, then names owned by the enclosing chain
// that are not shadowed by the frame.
func DescribeFrame(f Frame) (BindingsDocument, error) {
	doc := BindingsDocument{Format: FormatDescriptors, Bindings: []BindingDescriptor{}}
	if f == nil {
		return doc, nil
	}
	locals, captured, err := f.Names()
	if err != nil {
		return doc, fmt.Errorf("%w: %v", ErrFrameAccess, err)
	}

	shadowed := map[string]struct{}{}
	for _, name := range sortedNames(locals) {
		shadowed[name] = struct{}{}
		value, ok := f.Local(name)
		doc.Bindings = append(doc.Bindings, describeBinding(name, OriginLocal, value, ok))
	}
	for _, name := range sortedNames(captured) {
		shadowed[name] = struct{}{}
		descriptor := BindingDescriptor{Name: name, Origin: OriginCaptured, Type: "nil"}
		if cell, ok := f.Captured(name); ok {
			if value, ok := cell.Get(); ok {
				descriptor = describeBinding(name, OriginCaptured, value, true)
			}
		}
		doc.Bindings = append(doc.Bindings, descriptor)
	}
	for _, name := range f.Enclosing().Names() {
		if _, ok := shadowed[name]; ok {
			continue
		}
		value, ok := f.Enclosing().Get(name)
		doc.Bindings = append(doc.Bindings, describeBinding(name, OriginEnclosing, value, ok))
	}

	sort.Slice(doc.Bindings, func(i, j int) bool {
		return doc.Bindings[i].Name < doc.Bindings[j].Name
	})
	return doc, nil
}

// DescribeScope derives binding descriptors for a scope's own cells.
func DescribeScope(s *Scope) BindingsDocument {
	doc := BindingsDocument{Format: FormatDescriptors, Bindings: []BindingDescriptor{}}
	if s == nil {
		return doc
	}
	for _, name := range s.names {
		value, ok := s.cells[name].Get()
		doc.Bindings = append(doc.Bindings, describeBinding(name, "scope", value, ok))
	}
	return doc
}

func describeBinding(name, origin string, value any, set bool) BindingDescriptor {
	return BindingDescriptor{
		Name:   name,
		Origin: origin,
		Type:   typeName(value),
		Set:    set,
	}
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}
