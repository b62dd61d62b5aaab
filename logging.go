package let

import "time"

// OverlayLogEvent describes one apply or revert attempt for logging.
type OverlayLogEvent struct {
	Op       string
	Scope    string
	Bindings int
	Seq      uint64
	Duration time.Duration
	Err      error
}

// OverlayLogger records overlay lifecycle events.
type OverlayLogger interface {
	LogOverlay(OverlayLogEvent)
}

// OverlayLoggerFunc adapts a function to OverlayLogger.
type OverlayLoggerFunc func(OverlayLogEvent)

// LogOverlay implements OverlayLogger.
func (f OverlayLoggerFunc) LogOverlay(event OverlayLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopOverlayLogger struct{}

func (noopOverlayLogger) LogOverlay(OverlayLogEvent) {}

// WithOverlayLogger attaches an overlay logger to the scope.
func WithOverlayLogger(logger OverlayLogger) ScopeOption {
	return func(cfg *scopeConfig) {
		if logger == nil {
			cfg.logger = noopOverlayLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (s *Scope) overlayLogger() OverlayLogger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopOverlayLogger{}
}

// EvaluatorLogEvent describes an expression evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Scope    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger attaches an evaluator logger to the scope.
func WithEvaluatorLogger(logger EvaluatorLogger) ScopeOption {
	return func(cfg *scopeConfig) {
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}

func (s *Scope) evaluatorLogger() EvaluatorLogger {
	if s.cfg.evalLogger != nil {
		return s.cfg.evalLogger
	}
	return noopEvaluatorLogger{}
}
