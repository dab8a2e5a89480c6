package tools

import (
	"context"

	"go.uber.org/zap"
)

// Config class for tools
type Config struct {
	// title the default title of the tool
	title string
	// description the default description of the tool
	description string
	logger      *zap.Logger
	startHook   func(context.Context, Tool, any)
	endHook     func(context.Context, Tool, any, any)
	errorHook   func(context.Context, Tool, any, error)
}

func (c *Config) SetTitle(v string) {
	c.title = v
}

func (c Config) Title() string {
	return c.title
}

func (c *Config) SetDescription(v string) {
	c.description = v
}

func (c Config) Description() string {
	return c.description
}

func (c *Config) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Logger returns the tool logger, never nil
func (c Config) Logger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c *Config) SetStartHook(fn func(context.Context, Tool, any)) {
	c.startHook = fn
}

func (c *Config) SetEndHook(fn func(context.Context, Tool, any, any)) {
	c.endHook = fn
}

func (c *Config) SetErrorHook(fn func(context.Context, Tool, any, error)) {
	c.errorHook = fn
}
