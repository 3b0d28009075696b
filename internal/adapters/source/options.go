package source

import (
	"net/http"
	"time"

	"github.com/okian/climatedash/pkg/logger"
)

// Default limits.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 32 << 20
)

type settings struct {
	client   *http.Client
	timeout  time.Duration
	sheet    string
	maxBytes int64
	logger   logger.Logger
}

func defaults() settings {
	return settings{
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
		logger:   logger.Discard(),
	}
}

// Option configures a source.
type Option func(*settings)

// WithHTTPClient sets the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds a remote fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSheet selects the workbook sheet; the first sheet is used otherwise.
func WithSheet(name string) Option {
	return func(s *settings) {
		s.sheet = name
	}
}

// WithMaxBytes caps how much is read from a source.
func WithMaxBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
