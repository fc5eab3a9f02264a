package render

import "time"

// Viewport selects the simulated client width.
type Viewport string

const (
	Desktop Viewport = "desktop"
	Mobile  Viewport = "mobile"
)

// Output formats, as reported to an Observer.
const (
	FormatHTML     = "html"
	FormatTemplate = "template"
)

// Observer is notified after every render, e.g. to record metrics.
type Observer interface {
	ObserveRender(format string, d time.Duration, err error)
}

type Option func(*options)

type options struct {
	viewport Viewport
	minify   bool
	observer Observer
}

func newOptions(opts []Option) options {
	o := options{viewport: Desktop}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) observe(format string, d time.Duration, err error) {
	if o.observer != nil {
		o.observer.ObserveRender(format, d, err)
	}
}

func WithViewport(v Viewport) Option {
	return func(o *options) {
		if v == Mobile || v == Desktop {
			o.viewport = v
		}
	}
}

// WithMinify minifies HTML output. Template output is unaffected.
func WithMinify() Option {
	return func(o *options) { o.minify = true }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}
