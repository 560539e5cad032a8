package cropview

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithLimits(lim Limits) Option {
	return func(p *Pipeline) { p.limits = lim }
}

// WithQuality sets the JPEG quality. Values are clamped to 1-100.
func WithQuality(q int) Option {
	return func(p *Pipeline) { p.quality = min(max(q, 1), 100) }
}

// WithDecodeTimeout sets how long a decode may take. A zero or negative d
// leaves the current timeout in place.
func WithDecodeTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.decodeTimeout = d
		}
	}
}

// WithDecoder replaces NativeDecoder.
func WithDecoder(dec Decoder) Option {
	return func(p *Pipeline) { p.decoder = dec }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithObserver registers fn to be called after every state change. fn runs on
// the goroutine that made the change, without the pipeline lock held.
func WithObserver(fn func(Transition)) Option {
	return func(p *Pipeline) { p.observers = append(p.observers, fn) }
}
