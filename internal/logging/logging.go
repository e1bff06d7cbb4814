// Package logging builds the hclog logger shared by commands.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "curio"

// Options configures New.
type Options struct {
	Verbose bool
	Quiet   bool
	// Output defaults to os.Stderr.
	Output io.Writer
	// Color enables coloured level names when Output is a terminal.
	Color bool
}

// New returns a logger at Debug when verbose, Error when quiet and Info
// otherwise. Verbose wins if both are set.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := hclog.Info
	switch {
	case opts.Verbose:
		level = hclog.Debug
	case opts.Quiet:
		level = hclog.Error
	}

	color := hclog.ColorOff
	if opts.Color {
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Output: out,
		Level:  level,
		Color:  color,
	})
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Output: io.Discard,
		Level:  hclog.Off,
	})
}

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger hclog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) hclog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(hclog.Logger); ok {
			return logger
		}
	}
	return Discard()
}
