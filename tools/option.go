package tools

import (
	"context"

	"go.uber.org/zap"
)

type Option func(c *Config)

func WithTitle(title string) Option {
	return func(c *Config) {
		c.SetTitle(title)
	}
}

func WithDescription(desc string) Option {
	return func(c *Config) {
		c.SetDescription(desc)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.SetLogger(l)
	}
}

func WithStartHook(fn func(context.Context, Tool, any)) Option {
	return func(c *Config) {
		c.SetStartHook(fn)
	}
}

func WithEndHook(fn func(context.Context, Tool, any, any)) Option {
	return func(c *Config) {
		c.SetEndHook(fn)
	}
}

func WithErrorHook(fn func(context.Context, Tool, any, error)) Option {
	return func(c *Config) {
		c.SetErrorHook(fn)
	}
}

// WithLogHooks sets l as the tool logger and logs every call of the tool:
// the input when it starts, the output when it ends and the error when it fails.
func WithLogHooks(l *zap.Logger) Option {
	return func(c *Config) {
		WithLogger(l)(c)
		WithStartHook(func(_ context.Context, t Tool, input any) {
			l.Debug("tool start", zap.String("tool", t.Name()), zap.Any("input", input))
		})(c)
		WithEndHook(func(_ context.Context, t Tool, _ any, output any) {
			l.Debug("tool end", zap.String("tool", t.Name()), zap.Any("output", output))
		})(c)
		WithErrorHook(func(_ context.Context, t Tool, input any, err error) {
			l.Warn("tool error", zap.String("tool", t.Name()), zap.Any("input", input), zap.Error(err))
		})(c)
	}
}
