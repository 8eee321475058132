package splice

// Option configures a splice.
type Option func(*options)

type options struct {
	exactEndColumn bool
}

func defaultOptions() options {
	return options{}
}

// WithExactEndColumn makes a single-line replacement end at
// start column + replacement length instead of at the replacement length.
func WithExactEndColumn() Option {
	return func(o *options) {
		o.exactEndColumn = true
	}
}

// WithEndColumnMode selects the end column rule from a flag.
func WithEndColumnMode(exact bool) Option {
	return func(o *options) {
		o.exactEndColumn = exact
	}
}
