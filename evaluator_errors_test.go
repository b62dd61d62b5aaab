package let

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationError(t *testing.T) {
	cause := errors.New("undefined variable")

	err := wrapEvaluationError("expr", `limit > 5`, "flags", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause preserved, got %v", err)
	}

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Scope != "flags" {
		t.Fatalf("unexpected metadata: %#v", evalErr)
	}

	message := err.Error()
	for _, want := range []string{"let:", "expr", "limit > 5", "flags"} {
		if !strings.Contains(message, want) {
			t.Fatalf("expected %q in message %q", want, message)
		}
	}
}

func TestWrapEvaluationErrorIdempotent(t *testing.T) {
	inner := &EvaluationError{Engine: "cel", Expr: "a", Err: errors.New("boom")}

	wrapped := wrapEvaluationError("expr", "b", "flags", inner)
	var evalErr *EvaluationError
	if !errors.As(wrapped, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", wrapped)
	}
	if evalErr.Engine != "cel" || evalErr.Expr != "a" {
		t.Fatalf("expected original metadata kept, got %#v", evalErr)
	}
	if evalErr.Scope != "flags" {
		t.Fatalf("expected missing scope filled in, got %q", evalErr.Scope)
	}
}

func TestWrapEvaluationErrorNil(t *testing.T) {
	if err := wrapEvaluationError("expr", "a", "b", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWrapEvaluatorErrorKeepsPrefixedErrors(t *testing.T) {
	prefixed := errors.New("let: already annotated")
	if err := wrapEvaluatorError("expr", prefixed); err != prefixed {
		t.Fatalf("expected error returned untouched, got %v", err)
	}

	plain := errors.New("boom")
	err := wrapEvaluatorError("expr", plain)
	if !errors.Is(err, plain) {
		t.Fatalf("expected cause preserved, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "let: expr evaluator:") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestOverlayErrorMessage(t *testing.T) {
	err := wrapOverlayError("apply", "", ErrScopeInUse)
	if !errors.Is(err, ErrScopeInUse) {
		t.Fatalf("expected sentinel preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "<anonymous>") {
		t.Fatalf("expected anonymous scope marker, got %q", err.Error())
	}
}
