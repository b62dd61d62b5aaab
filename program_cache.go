package let

// ProgramCache stores compiled expression programs keyed by expression
// strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache used by the scope's evaluator.
func WithProgramCache(cache ProgramCache) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.programCache = cache
	}
}
