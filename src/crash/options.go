package crash

import "crashwatch/src/model"

// Options tune a single LogCrash call.
type Options struct {
	IsUnhandledRejection bool
	NetworkHint          *model.NetworkHint
	ExtraContext         *model.CrashContext
}

type Option func(*Options)

// Unhandled marks the failure as an unhandled asynchronous rejection.
func Unhandled() Option {
	return func(o *Options) { o.IsUnhandledRejection = true }
}

// WithNetworkHint correlates the failure with an HTTP request.
func WithNetworkHint(h model.NetworkHint) Option {
	return func(o *Options) { o.NetworkHint = &h }
}

// WithExtraContext attaches caller-known context (user, role, board, route).
// Non-zero fields override derived ones.
func WithExtraContext(c model.CrashContext) Option {
	return func(o *Options) { o.ExtraContext = &c }
}

// ApplyOptions folds opts into an Options value. Nil options are skipped.
func ApplyOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
