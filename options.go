package s1l0

import (
	"io"

	"github.com/charmbracelet/log"
)

// defaultConfigSearchPath is tried, in order, before falling back to
// DefaultConfig.
var defaultConfigSearchPath = []string{
	"s1l0.yaml",
	"s1l0.yml",
}

// options collects the resolved state built from a caller's Option list.
type options struct {
	logger      *log.Logger
	config      Config
	configSet   bool
	concurrency int
}

// Option configures Open.
type Option func(*options)

// WithLogger attaches a structured logger to the File driver; decode
// failures, sync-marker mismatches and batch dispatch are reported to it.
// The default logger writes to io.Discard.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConfig supplies an explicit Config, bypassing the default
// config-file search.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
		o.configSet = true
	}
}

// WithConcurrency overrides the worker-goroutine count used when decoding
// batches; the default is the Config's Concurrency field, or
// runtime.GOMAXPROCS(-1) when that is zero.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

func resolveOptions(opts []Option) options {
	o := options{
		logger: log.New(io.Discard),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if !o.configSet {
		o.config = searchConfig(defaultConfigSearchPath)
	}
	if o.concurrency == 0 {
		o.concurrency = o.config.Concurrency
	}
	return o
}

// BurstDataOption configures (*File).BurstData.
type BurstDataOption func(*burstDataOptions)

type burstDataOptions struct {
	useCache bool
}

// WithCache enables the on-disk burst cache: BurstData first reads the
// burst's cache file, and only on a cache miss decodes the burst and writes
// the cache file (a failed write is logged, not returned).
func WithCache() BurstDataOption {
	return func(o *burstDataOptions) { o.useCache = true }
}

func resolveBurstDataOptions(opts []BurstDataOption) burstDataOptions {
	var o burstDataOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
