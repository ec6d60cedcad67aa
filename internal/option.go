package internal

import (
	"io"
	"os"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	version string
	logOut  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVersion sets the version reported to MCP clients and in logs.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithLogOutput redirects structured logs. The default is stdout for the
// HTTP server and stderr for the MCP server, whose stdout carries the protocol.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

func newApplication(defaultLogOut io.Writer, opts []Option) *application {
	app := &application{version: "dev", logOut: defaultLogOut}
	for _, opt := range opts {
		opt(app)
	}
	if app.logOut == nil {
		app.logOut = os.Stderr
	}
	return app
}
