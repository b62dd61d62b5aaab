package let

import (
	"errors"
	"testing"

	layering "github.com/goliatone/go-let/layering"
)

func TestTraceNameLocal(t *testing.T) {
	frame := newTestFrame()
	frame.localNames = []string{"snack"}
	frame.locals["snack"] = "taco"

	trace, err := TraceName(frame, "snack")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace.Steps) != 1 {
		t.Fatalf("expected one step, got %d", len(trace.Steps))
	}
	step := trace.Steps[0]
	if step.Origin != OriginLocal || !step.Found || step.Value != "taco" {
		t.Fatalf("unexpected step: %#v", step)
	}
}

func TestTraceNameCapturedEmptyCell(t *testing.T) {
	frame := newTestFrame()
	frame.capturedNames = []string{"drink"}
	frame.cells["drink"] = NewEmptyCell()

	trace, err := TraceName(frame, "drink")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace.Steps) != 1 {
		t.Fatalf("expected one step, got %d", len(trace.Steps))
	}
	step := trace.Steps[0]
	if step.Origin != OriginCaptured || step.Found {
		t.Fatalf("expected unset captured step, got %#v", step)
	}
}

func TestTraceNameWalksEnclosingLayers(t *testing.T) {
	frame := newTestFrame()
	frame.enclosing.Push(layering.NewLayer(map[string]any{"city": "tokyo"}))
	frame.enclosing.Push(layering.NewLayer(map[string]any{"monster": "godzilla"}))

	trace, err := TraceName(frame, "city")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace.Steps) != 2 {
		t.Fatalf("expected two steps, got %d", len(trace.Steps))
	}
	if trace.Steps[0].Found {
		t.Fatalf("expected miss in strongest layer, got %#v", trace.Steps[0])
	}
	last := trace.Steps[1]
	if last.Origin != OriginEnclosing || last.Layer != 2 || !last.Found || last.Value != "tokyo" {
		t.Fatalf("unexpected final step: %#v", last)
	}
}

func TestTraceNameStopsAtOwnerOfUnsetName(t *testing.T) {
	frame := newTestFrame()
	bottom := layering.NewLayer(map[string]any{"city": "tokyo"})
	top := layering.NewLayer(map[string]any{"city": "osaka"})
	top.Delete("city")
	frame.enclosing.Push(bottom)
	frame.enclosing.Push(top)

	trace, err := TraceName(frame, "city")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace.Steps) != 1 {
		t.Fatalf("expected lookup to stop at owner, got %d steps", len(trace.Steps))
	}
	if trace.Steps[0].Found {
		t.Fatalf("expected unset owner step, got %#v", trace.Steps[0])
	}
}

func TestTraceNameNilFrame(t *testing.T) {
	if _, err := TraceName(nil, "snack"); !errors.Is(err, ErrFrameAccess) {
		t.Fatalf("expected ErrFrameAccess, got %v", err)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	frame := newTestFrame()
	frame.localNames = []string{"snack"}
	frame.locals["snack"] = "taco"

	trace, err := TraceName(frame, "snack")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if decoded.Name != "snack" || len(decoded.Steps) != 1 || decoded.Steps[0].Value != "taco" {
		t.Fatalf("round trip mismatch: %#v", decoded)
	}
}
