package let

import (
	"errors"
	"testing"
)

func TestWithAppliesAndReverts(t *testing.T) {
	frame := newTestFrame()
	frame.localNames = []string{"snack"}
	frame.locals["snack"] = "taco"

	scope := mustScope(t, map[string]any{"snack": "pizza"})

	err := With(frame, scope, func() error {
		if value, _ := frame.Local("snack"); value != "pizza" {
			t.Fatalf("expected overlay inside body, got %v", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value, _ := frame.Local("snack"); value != "taco" {
		t.Fatalf("expected prior value after body, got %v", value)
	}
	if scope.Active() {
		t.Fatal("expected scope inactive after body")
	}
}

func TestWithRevertsOnBodyError(t *testing.T) {
	frame := newTestFrame()
	frame.localNames = []string{"snack"}
	frame.locals["snack"] = "taco"

	scope := mustScope(t, map[string]any{"snack": "pizza"})
	bodyErr := errors.New("body failed")

	err := With(frame, scope, func() error { return bodyErr })
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body error propagated, got %v", err)
	}
	if value, _ := frame.Local("snack"); value != "taco" {
		t.Fatalf("expected revert despite body error, got %v", value)
	}
}

func TestWithRevertsOnBodyPanic(t *testing.T) {
	frame := newTestFrame()
	frame.localNames = []string{"snack"}
	frame.locals["snack"] = "taco"

	scope := mustScope(t, map[string]any{"snack": "pizza"})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = With(frame, scope, func() error { panic("boom") })
	}()

	if value, _ := frame.Local("snack"); value != "taco" {
		t.Fatalf("expected revert despite panic, got %v", value)
	}
	if scope.Active() {
		t.Fatal("expected scope inactive after panic")
	}
}

func TestWithApplyFailureSkipsBody(t *testing.T) {
	frame := newTestFrame()
	frame.namesErr = errors.New("no introspection")

	scope := mustScope(t, map[string]any{"snack": "pizza"})

	ran := false
	err := With(frame, scope, func() error {
		ran = true
		return nil
	})
	if !errors.Is(err, ErrFrameAccess) {
		t.Fatalf("expected ErrFrameAccess, got %v", err)
	}
	if ran {
		t.Fatal("expected body skipped when apply fails")
	}
}

func TestLetBuildsThrowawayScope(t *testing.T) {
	frame := newTestFrame()
	frame.localNames = []string{"snack"}
	frame.locals["snack"] = "taco"

	err := Let(frame, map[string]any{"snack": "pizza"}, func() error {
		if value, _ := frame.Local("snack"); value != "pizza" {
			t.Fatalf("expected overlay inside body, got %v", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value, _ := frame.Local("snack"); value != "taco" {
		t.Fatalf("expected prior value after body, got %v", value)
	}
}

func TestLetRejectsInvalidBindings(t *testing.T) {
	frame := newTestFrame()
	err := Let(frame, map[string]any{"not valid": 1}, func() error { return nil })
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}
