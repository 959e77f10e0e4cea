package entdoc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/domain/query"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	params           Params
	appName          string
	connectTimeout   time.Duration
	readinessTimeout time.Duration

	limits   query.Limits
	registry *schema.Registry

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithURL connects with a connection string
// scheme://[user[:pass]@]host[:port][,host[:port]]/db[?options].
func WithURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.params = Params{URL: url}
	})
}

// WithParams connects with discrete parameters. A URL in p takes precedence.
func WithParams(p Params) Option {
	return optionFunc(func(c *clientConfig) {
		c.params = p
	})
}

// WithAppName sets the application name reported to the server.
func WithAppName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.appName = name
	})
}

// WithConnectTimeout bounds server selection and connection setup.
func WithConnectTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.connectTimeout = d
	})
}

// WithReadinessTimeout bounds how long New waits for the first successful ping.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLimits sets the pagination bounds of every read.
// Defaults: 100 per page, at most 1000.
func WithLimits(defaultPer, maxPer int) Option {
	return optionFunc(func(c *clientConfig) {
		c.limits = query.Limits{DefaultPer: defaultPer, MaxPer: maxPer}
	})
}

// WithRegistry shares an existing schema registry instead of a fresh one.
func WithRegistry(r *Registry) Option {
	return optionFunc(func(c *clientConfig) {
		c.registry = r
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers store and validation metrics on the given
// registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
