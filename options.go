package airdrive

import (
	"io"
	"log/slog"
	"net/http"
)

// Option specifies Drive configuration options.
type Option interface {
	apply(*config)
}

type config struct {
	logger    *slog.Logger
	client    *http.Client
	localDir  string
	chunkSize int
	silent    bool
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

func newConfig(opts []Option) config {
	cfg := config{
		localDir:  ".",
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	if cfg.silent {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}

	return cfg
}

// WithLogger specifies the logger progress messages are written to. If none
// is specified, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithSilent suppresses all progress messages when silent is true,
// regardless of WithLogger.
func WithSilent(silent bool) Option {
	return optionFunc(func(cfg *config) {
		cfg.silent = silent
	})
}

// WithHTTPClient specifies the client used by Drive.UploadFromURL. If none is
// specified, http.DefaultClient is used.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(cfg *config) {
		if client != nil {
			cfg.client = client
		}
	})
}

// WithLocalDir specifies the local directory downloads are written to. The
// default is the current working directory.
func WithLocalDir(dir string) Option {
	return optionFunc(func(cfg *config) {
		if dir != "" {
			cfg.localDir = dir
		}
	})
}

// WithChunkSize sets the size of the chunks read by Drive.Download and
// Drive.Cache. Non-positive sizes are ignored.
func WithChunkSize(size int) Option {
	return optionFunc(func(cfg *config) {
		if size > 0 {
			cfg.chunkSize = size
		}
	})
}
