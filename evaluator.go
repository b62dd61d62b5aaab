package let

import "time"

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// EvalContext carries inputs needed when evaluating an expression against a
// frame's visible bindings.
type EvalContext struct {
	Frame    Frame
	Label    string
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) withDefaultMaps() EvalContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) scopeLabel() string {
	if ctx.Label != "" {
		return ctx.Label
	}
	return "frame"
}

// bindings flattens the frame's visible bindings. Evaluation proceeds with an
// empty environment when the frame cannot be enumerated; the read failure
// then surfaces as an undefined variable.
func (ctx EvalContext) bindings() map[string]any {
	if ctx.Frame == nil {
		return map[string]any{}
	}
	visible, err := VisibleBindings(ctx.Frame)
	if err != nil {
		return map[string]any{}
	}
	return visible
}

// Evaluator executes expressions against a frame context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// WithEvaluator configures the evaluator used by Scope.Evaluate.
func WithEvaluator(e Evaluator) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.evaluator = e
	}
}
