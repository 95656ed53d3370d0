package archive

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/canz/internal/options"
)

// DefaultCacheTTL is how long decoded samples stay cached when WithCacheTTL is not given.
const DefaultCacheTTL = 5 * time.Minute

type config struct {
	cacheTTL     time.Duration
	log          *logrus.Logger
	queryLogging bool
}

func defaultConfig() *config {
	log := logrus.New()
	log.Out = io.Discard

	return &config{
		cacheTTL: DefaultCacheTTL,
		log:      log,
	}
}

// Option configures an Archive.
type Option = options.Option[*config]

// WithCacheTTL sets how long decoded samples are cached. A negative duration caches
// forever and zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return options.NoError(func(c *config) {
		c.cacheTTL = ttl
	})
}

// WithLogger routes archive logs to log.
func WithLogger(log *logrus.Logger) Option {
	return options.NoError(func(c *config) {
		if log != nil {
			c.log = log
		}
	})
}

// WithQueryLogging prints every SQL statement through the gorm logger.
func WithQueryLogging(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.queryLogging = enabled
	})
}
