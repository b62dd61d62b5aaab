package let

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("let: evaluator not configured")

// Evaluate executes expr against f's visible bindings using the scope's
// configured evaluator. Names overlaid by an active scope resolve to the
// overlay's values, which is the point: embedded engines observe the same
// bindings the frame does.
func (s *Scope) Evaluate(f Frame, expr string) (Response[any], error) {
	return s.EvaluateWith(EvalContext{Frame: f}, expr)
}

// EvaluateWith executes expr using ctx, falling back to the scope's label
// when ctx carries none.
func (s *Scope) EvaluateWith(ctx EvalContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Label == "" {
		ctx.Label = s.cfg.label
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, ctx.scopeLabel(), evalErr)
	s.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Scope:    ctx.scopeLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (s *Scope) resolveEvaluator() (Evaluator, error) {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := s.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := s.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*let.exprEvaluator":
		return "expr"
	case "*let.celEvaluator":
		return "cel"
	case "*let.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
