package agents

import (
	"github.com/bububa/qa-agents/components/systemprompt"
	"github.com/bububa/qa-agents/tools"
)

type Option func(a *Config)

func WithClient(clt ChatClient) Option {
	return func(c *Config) {
		c.SetClient(clt)
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.SetSystemPromptGenerator(g)
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.SetModel(model)
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.SetTemperature(temperature)
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.SetMaxTokens(maxTokens)
	}
}

// WithHandoffDescription is shown to agents which can transfer to this one
func WithHandoffDescription(desc string) Option {
	return func(c *Config) {
		c.handoffDescription = desc
	}
}

func WithTools(list ...tools.Tool) Option {
	return func(c *Config) {
		c.AddTools(list...)
	}
}

func WithHandoffs(list ...*Agent) Option {
	return func(c *Config) {
		c.AddHandoffs(list...)
	}
}

func WithInputGuardrails(list ...InputGuardrail) Option {
	return func(c *Config) {
		c.inputGuardrails = append(c.inputGuardrails, list...)
	}
}

func WithOutputMode(mode OutputMode) Option {
	return func(c *Config) {
		c.SetOutputMode(mode)
	}
}
