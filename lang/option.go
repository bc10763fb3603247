package lang

import (
	"github.com/ardnew/fala/log"
)

// Option configures parsing.
type Option func(*Program)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *Program) {
		p.logger = logger
	}
}

// WithSource records the source text so that syntax errors can quote the
// offending line. [ParseString] and [ParseReader] set it automatically.
func WithSource(src string) Option {
	return func(p *Program) {
		p.source = src
	}
}

func applyOptions(p *Program, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
}
