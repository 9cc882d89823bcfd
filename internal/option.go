package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config       *Config
	out          io.Writer
	logOut       io.Writer
	publish      bool
	historyLimit int
	serveWatch   bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where command reports (problems, history) are printed.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput sets where structured logs are written.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithPublish controls whether the build command publishes its artifacts.
func WithPublish(enabled bool) Option {
	return func(a *application) {
		a.publish = enabled
	}
}

// WithHistoryLimit sets how many ledger rows the history command prints.
func WithHistoryLimit(n int) Option {
	return func(a *application) {
		a.historyLimit = n
	}
}

// WithServeWatch makes the serve command rebuild on content changes and
// stream build events at /api/events.
func WithServeWatch(enabled bool) Option {
	return func(a *application) {
		a.serveWatch = enabled
	}
}
