package panel

import (
	"github.com/tliron/commonlog"

	"github.com/dshills/storysource/internal/highlight"
)

// Navigator opens the item identified by group and item, for example the
// story a region was declared for.
type Navigator func(group, item string)

// Option configures a Panel.
type Option func(*Panel)

// WithTokenizer sets the tokenizer used by Render.
func WithTokenizer(t highlight.Tokenizer) Option {
	return func(p *Panel) {
		if t != nil {
			p.tokenizer = t
		}
	}
}

// WithNavigator sets the callback invoked by Activate.
func WithNavigator(n Navigator) Option {
	return func(p *Panel) {
		p.navigate = n
	}
}

// WithTransitionOptions sets the options passed to Dispatch.
func WithTransitionOptions(opts TransitionOptions) Option {
	return func(p *Panel) {
		p.opts = opts
	}
}

// WithLogger sets the panel logger.
func WithLogger(log commonlog.Logger) Option {
	return func(p *Panel) {
		if log != nil {
			p.log = log
		}
	}
}

// WithSource sets the source name stamped on published events.
func WithSource(source string) Option {
	return func(p *Panel) {
		if source != "" {
			p.source = source
		}
	}
}
