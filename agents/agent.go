package agents

import (
	"context"
	"errors"
	"strings"
	"unicode"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bububa/qa-agents/components"
	"github.com/bububa/qa-agents/components/systemprompt"
	"github.com/bububa/qa-agents/components/systemprompt/cot"
	"github.com/bububa/qa-agents/tools"
)

// ErrNoClient the agent has no chat completion client
var ErrNoClient = errors.New("agent has no chat client")

// ChatClient is the chat completion API an agent talks to. *openai.Client satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config represents general agents configuration
type Config struct {
	// client Client for interacting with the language model
	client ChatClient
	//	systemPromptGenerator Component for generating system prompts.
	systemPromptGenerator systemprompt.Generator
	// model llm model
	model string
	// temperature Temperature for response generation, typically ranging from 0 to 1.
	temperature float32
	// maxTokens Maximum number of tokens allowed in the response
	maxTokens int
	// name is Agent name presentation
	name string
	// handoffDescription tells other agents when to transfer to this one
	handoffDescription string
	tools              []tools.Tool
	handoffs           []*Agent
	inputGuardrails    []InputGuardrail
	output             *outputType
	outputMode         OutputMode
	// err collects option errors, reported when the agent runs
	err error
}

// Agent is a named model persona with instructions, tools, handoff targets and an optional structured output type.
// Agents hold no conversation state, a Runner drives them.
type Agent struct {
	Config
}

// NewAgent initializes the Agent
func NewAgent(name string, options ...Option) *Agent {
	ret := new(Agent)
	ret.name = name
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = cot.New()
	}
	if ret.outputMode == "" {
		ret.outputMode = JSONSchemaOutput
	}
	return ret
}

func (c *Config) SetClient(clt ChatClient) {
	c.client = clt
}

func (c *Config) SetSystemPromptGenerator(g systemprompt.Generator) {
	c.systemPromptGenerator = g
}

func (c *Config) SetModel(model string) {
	c.model = model
}

func (c *Config) SetTemperature(temperature float32) {
	c.temperature = temperature
}

func (c *Config) SetMaxTokens(maxTokens int) {
	c.maxTokens = maxTokens
}

func (c *Config) SetOutputMode(mode OutputMode) {
	c.outputMode = mode
}

func (c Config) Name() string {
	return c.name
}

func (c Config) Model() string {
	return c.model
}

func (c Config) Temperature() float32 {
	return c.temperature
}

func (c Config) MaxTokens() int {
	return c.maxTokens
}

func (c Config) HandoffDescription() string {
	return c.handoffDescription
}

func (c Config) Tools() []tools.Tool {
	return c.tools
}

func (c Config) Handoffs() []*Agent {
	return c.handoffs
}

func (c Config) InputGuardrails() []InputGuardrail {
	return c.inputGuardrails
}

// HasOutputType reports whether final replies are decoded into a structured type
func (c Config) HasOutputType() bool {
	return c.output != nil
}

// AddTools registers tools, later registrations with the same name are ignored
func (c *Config) AddTools(list ...tools.Tool) {
	for _, t := range list {
		if c.tool(t.Name()) == nil {
			c.tools = append(c.tools, t)
		}
	}
}

// AddHandoffs registers agents this one may transfer the conversation to
func (c *Config) AddHandoffs(list ...*Agent) {
	for _, h := range list {
		if c.handoff(HandoffToolName(h)) == nil {
			c.handoffs = append(c.handoffs, h)
		}
	}
}

// SystemPrompt returns the system prompt
func (a *Agent) SystemPrompt() string {
	prompt := a.systemPromptGenerator.Generate()
	if a.output != nil && a.outputMode == JSONObjectOutput {
		prompt += "\n\n" + a.output.instructions()
	}
	return prompt
}

// HandoffToolName is the function name the model calls to transfer to agent
func HandoffToolName(agent *Agent) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(agent.Name()) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return "transfer_to_" + sb.String()
}

func (c Config) tool(name string) tools.Tool {
	for _, t := range c.tools {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

func (c Config) handoff(name string) *Agent {
	for _, h := range c.handoffs {
		if HandoffToolName(h) == name {
			return h
		}
	}
	return nil
}

// chatRequest builds the completion request for the transcript
func (a *Agent) chatRequest(history []components.Message) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:               a.model,
		Temperature:         a.temperature,
		MaxCompletionTokens: a.maxTokens,
		Messages:            make([]openai.ChatCompletionMessage, 0, len(history)+1),
	}
	system := new(openai.ChatCompletionMessage)
	components.NewMessage(components.SystemRole, a.SystemPrompt()).ToOpenAI(system)
	req.Messages = append(req.Messages, *system)
	for _, msg := range history {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		req.Messages = append(req.Messages, *v)
	}
	for _, t := range a.tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	for _, h := range a.handoffs {
		desc := "Handoff to the " + h.Name() + " agent to handle the request."
		if h.handoffDescription != "" {
			desc += " " + h.handoffDescription
		}
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        HandoffToolName(h),
				Description: desc,
				Parameters:  &jsonschema.Definition{Type: jsonschema.Object, Properties: map[string]jsonschema.Definition{}},
			},
		})
	}
	if a.output != nil {
		req.ResponseFormat = a.output.responseFormat(a.outputMode)
	}
	return req
}
