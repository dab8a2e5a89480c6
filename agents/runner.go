package agents

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bububa/qa-agents/components"
)

const DefaultMaxTurns = 10

var (
	// ErrMaxTurnsExceeded the agents kept calling tools past the turn limit
	ErrMaxTurnsExceeded = errors.New("max turns exceeded")
	// ErrNoChoices the model returned no completion choice
	ErrNoChoices = errors.New("model returned no choices")
)

// Runner drives agents: input guardrails, the model/tool loop, handoffs and output decoding.
// A Runner keeps no state between runs and can be shared.
type Runner struct {
	maxTurns int
	logger   *zap.Logger
}

type RunnerOption func(*Runner)

func WithMaxTurns(n int) RunnerOption {
	return func(r *Runner) {
		r.maxTurns = n
	}
}

func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

func NewRunner(opts ...RunnerOption) *Runner {
	ret := new(Runner)
	for _, opt := range opts {
		opt(ret)
	}
	if ret.maxTurns <= 0 {
		ret.maxTurns = DefaultMaxTurns
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}

func (r *Runner) Logger() *zap.Logger {
	return r.logger
}

// Run runs agent with a single user message
func (r *Runner) Run(ctx context.Context, agent *Agent, input string) (*RunResult, error) {
	return r.RunMessages(ctx, agent, []components.Message{*components.NewMessage(components.UserRole, input)})
}

// RunMessages runs agent over an existing transcript.
// Input guardrails of agent see the content of the last user message.
// The returned result is never nil, on error it holds what was produced so far.
func (r *Runner) RunMessages(ctx context.Context, agent *Agent, input []components.Message) (*RunResult, error) {
	result := &RunResult{
		Input:     append([]components.Message(nil), input...),
		LastAgent: agent,
		Usage:     new(components.LLMUsage),
	}
	if agent.err != nil {
		return result, fmt.Errorf("agent %s: %w", agent.Name(), agent.err)
	}
	logger := r.logger.With(zap.String("trace_id", TraceIDFromContext(ctx)))

	if err := r.runInputGuardrails(ctx, agent, lastUserContent(input), result); err != nil {
		return result, err
	}

	memory := components.NewMemory(0)
	turnID := memory.NewTurn()
	memory.Append(input...)
	offset := memory.MessageCount()
	current := agent
	for turn := 0; turn < r.maxTurns; turn++ {
		if current.client == nil {
			return result, fmt.Errorf("agent %s: %w", current.Name(), ErrNoClient)
		}
		logger.Debug("agent turn", zap.String("agent", current.Name()), zap.Int("turn", turn), zap.String("turn_id", turnID))
		resp, err := current.client.CreateChatCompletion(ctx, current.chatRequest(memory.History()))
		if err != nil {
			return result, fmt.Errorf("agent %s: %w", current.Name(), err)
		}
		llmResp := new(components.LLMResponse)
		llmResp.FromOpenAI(&resp)
		result.Usage.Merge(llmResp.Usage)
		if len(resp.Choices) == 0 {
			return result, fmt.Errorf("agent %s: %w", current.Name(), ErrNoChoices)
		}
		msg := components.MessageFromOpenAI(&resp.Choices[0].Message).SetAgent(current.Name())
		memory.Append(*msg)
		result.NewItems = memory.Since(offset)
		result.LastAgent = current

		if len(msg.ToolCalls()) == 0 {
			out, err := current.decodeOutput(msg.Content())
			if err != nil {
				return result, fmt.Errorf("agent %s: %w", current.Name(), err)
			}
			result.FinalOutput = out
			return result, nil
		}

		next, err := r.callTools(ctx, logger, current, msg.ToolCalls(), memory)
		result.NewItems = memory.Since(offset)
		if err != nil {
			return result, err
		}
		if next != nil {
			logger.Info("handoff", zap.String("from", current.Name()), zap.String("to", next.Name()))
			current = next
			result.LastAgent = current
		}
	}
	return result, fmt.Errorf("%w (%d)", ErrMaxTurnsExceeded, r.maxTurns)
}

// callTools answers every tool call in order. The first handoff call wins, the returned agent is nil without one.
// Tool failures are reported to the model as the tool output.
func (r *Runner) callTools(ctx context.Context, logger *zap.Logger, current *Agent, calls []components.ToolCall, memory *components.Memory) (*Agent, error) {
	var next *Agent
	for _, call := range calls {
		var content string
		if target := current.handoff(call.Name); target != nil {
			if next == nil {
				next = target
				content = fmt.Sprintf(`{"assistant": %q}`, target.Name())
			} else {
				content = "Multiple handoffs detected, ignoring this one."
			}
		} else if tool := current.tool(call.Name); tool == nil {
			content = fmt.Sprintf("error: tool %s not found", call.Name)
			logger.Warn("unknown tool", zap.String("agent", current.Name()), zap.String("tool", call.Name))
		} else {
			logger.Debug("call tool", zap.String("agent", current.Name()), zap.String("tool", call.Name), zap.String("arguments", call.Arguments))
			ret, err := tool.Call(ctx, call.Arguments)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				logger.Warn("tool error", zap.String("agent", current.Name()), zap.String("tool", call.Name), zap.Error(err))
				content = "error: " + err.Error()
			} else {
				content = ret
			}
		}
		memory.Append(*components.NewToolMessage(call.ID, content).SetAgent(current.Name()))
	}
	return next, nil
}

func lastUserContent(msgs []components.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role() == components.UserRole {
			return msgs[i].Content()
		}
	}
	return ""
}
