package services

import "github.com/dmitrijs2005/catcurious/internal/logging"

// Option configures a service.
type Option func(*options)

type options struct {
	log      logging.Logger
	observer Observer
}

func newOptions(opts []Option) options {
	o := options{log: logging.NopLogger{}, observer: NopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for diagnostic events.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver sets the observer notified about every operation.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
