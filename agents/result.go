package agents

import (
	"github.com/bububa/qa-agents/components"
	"github.com/bububa/qa-agents/schema"
)

// RunResult is the outcome of a Runner run
type RunResult struct {
	// Input the messages the run started with
	Input []components.Message
	// NewItems the messages produced during the run, tool calls and results included
	NewItems []components.Message
	// LastAgent the agent which produced the final output
	LastAgent *Agent
	// FinalOutput is a string, or a pointer to the output type of LastAgent
	FinalOutput any
	// Usage token usage summed over every model call of the run
	Usage                 *components.LLMUsage
	InputGuardrailResults []InputGuardrailResult
}

// ToInputList returns input and new messages, ready to start a follow up run
func (r *RunResult) ToInputList() []components.Message {
	ret := make([]components.Message, 0, len(r.Input)+len(r.NewItems))
	ret = append(ret, r.Input...)
	return append(ret, r.NewItems...)
}

// FinalOutputText renders the final output as text, JSON for structured outputs
func (r *RunResult) FinalOutputText() string {
	return schema.Stringify(r.FinalOutput)
}

// FinalOutputAs returns the final output as T
func FinalOutputAs[T any](r *RunResult) (T, bool) {
	switch t := r.FinalOutput.(type) {
	case T:
		return t, true
	case *T:
		if t != nil {
			return *t, true
		}
	}
	var zero T
	return zero, false
}
