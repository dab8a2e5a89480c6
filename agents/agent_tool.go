package agents

import (
	"context"

	"github.com/bububa/qa-agents/tools"
)

// AgentToolInput is the argument of an agent exposed as a tool
type AgentToolInput struct {
	Input string `json:"input" description:"The request for the agent" validate:"required"`
}

// AsTool exposes the agent as a function tool. The caller keeps control of the conversation,
// the tool output is the agent's final output as text.
func (a *Agent) AsTool(runner *Runner, name string, description string) tools.Tool {
	fn := func(ctx context.Context, in *AgentToolInput) (string, error) {
		res, err := runner.Run(ctx, a, in.Input)
		if err != nil {
			return "", err
		}
		return res.FinalOutputText(), nil
	}
	return tools.NewFunction(fn,
		tools.WithTitle(name),
		tools.WithDescription(description),
		tools.WithLogHooks(runner.Logger()),
	)
}
