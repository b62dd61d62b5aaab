package let

import (
	"encoding/json"
	"fmt"
)

// Trace captures provenance information for one name lookup across a frame's
// storage categories and its enclosing chain.
type Trace struct {
	Name  string       `json:"name"`
	Steps []Resolution `json:"steps"`
}

// Resolution details how one storage location contributed to a traced name.
type Resolution struct {
	Origin string `json:"origin"`
	Layer  int    `json:"layer,omitempty"`
	Value  any    `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// Origins reported in resolution steps.
const (
	OriginLocal     = "local"
	OriginCaptured  = "captured"
	OriginEnclosing = "enclosing"
)

// TraceName resolves name against f the way a read would, recording every
// location consulted: the local slot, the captured cell, then each enclosing
// layer from strongest to weakest. Resolution stops at the first owner; later
// steps are not recorded.
func TraceName(f Frame, name string) (Trace, error) {
	trace := Trace{Name: name}
	if f == nil {
		return trace, fmt.Errorf("%w: frame is nil", ErrFrameAccess)
	}
	locals, captured, err := f.Names()
	if err != nil {
		return trace, fmt.Errorf("%w: %v", ErrFrameAccess, err)
	}

	if toNameSet(locals)[name] {
		value, ok := f.Local(name)
		trace.Steps = append(trace.Steps, Resolution{Origin: OriginLocal, Value: value, Found: ok})
		return trace, nil
	}
	if toNameSet(captured)[name] {
		step := Resolution{Origin: OriginCaptured}
		if cell, ok := f.Captured(name); ok {
			step.Value, step.Found = cell.Get()
		}
		trace.Steps = append(trace.Steps, step)
		return trace, nil
	}

	chain := f.Enclosing()
	for depth := 0; depth < chain.Len(); depth++ {
		// Walk layer by layer so the trace shows which layer owns the
		// name, not just the chained result.
		layer := chain.At(depth)
		if layer == nil || !layer.Has(name) {
			trace.Steps = append(trace.Steps, Resolution{Origin: OriginEnclosing, Layer: depth + 1})
			continue
		}
		value, ok := layer.Get(name)
		trace.Steps = append(trace.Steps, Resolution{Origin: OriginEnclosing, Layer: depth + 1, Value: value, Found: ok})
		return trace, nil
	}
	return trace, nil
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously generated via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
