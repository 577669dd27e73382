package widget

import "go.uber.org/zap"

// DefaultActiveClass is the marker class toggled by the built-in
// activate/deactivate actions.
const DefaultActiveClass = "active"

// DefaultMaxBroadcastDepth bounds how deeply broadcasts may nest when
// subscribers emit from inside their handlers.
const DefaultMaxBroadcastDepth = 32

type config struct {
	logger          *zap.Logger
	activeClass     string
	maxDepth        int
	repeatedStartup bool
}

func defaultConfig() config {
	return config{
		logger:      zap.NewNop(),
		activeClass: DefaultActiveClass,
		maxDepth:    DefaultMaxBroadcastDepth,
	}
}

// Option configures a Hub.
type Option func(*config)

// WithLogger sets the logger used by the hub and its components.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithActiveClass changes the marker class used by isActive, activate and
// deactivate.
func WithActiveClass(class string) Option {
	return func(c *config) {
		if class != "" {
			c.activeClass = class
		}
	}
}

// WithMaxBroadcastDepth sets how many broadcasts may be nested before
// Broadcast fails with ErrBroadcastDepth.
func WithMaxBroadcastDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithRepeatedStartup makes every Define call re-run the startup hook of
// every element with nodes, including elements defined by earlier calls.
//
// By default each element's startup hook runs once. Enable this only for
// code written against the older behavior.
func WithRepeatedStartup() Option {
	return func(c *config) { c.repeatedStartup = true }
}
