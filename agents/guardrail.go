package agents

import (
	"context"
	"fmt"
)

// GuardrailFunctionOutput is what a guardrail function decides about an input
type GuardrailFunctionOutput struct {
	// OutputInfo carries the guardrail's own findings, e.g. a checker agent output
	OutputInfo any
	// TripwireTriggered stops the run before the agent is called
	TripwireTriggered bool
}

// InputGuardrail checks the user input before the starting agent runs
type InputGuardrail struct {
	Name string
	Func func(ctx context.Context, agent *Agent, input string) (GuardrailFunctionOutput, error)
}

// InputGuardrailResult records the outcome of one guardrail
type InputGuardrailResult struct {
	Guardrail InputGuardrail
	Output    GuardrailFunctionOutput
}

// InputGuardrailTripwireError is returned when a guardrail tripwire was triggered
type InputGuardrailTripwireError struct {
	Result InputGuardrailResult
}

func (e *InputGuardrailTripwireError) Error() string {
	return fmt.Sprintf("input guardrail %s triggered tripwire", e.Result.Guardrail.Name)
}

// AgentGuardrail runs checker over the input, tripped decides from its final output
func AgentGuardrail(name string, runner *Runner, checker *Agent, tripped func(output any) bool) InputGuardrail {
	return InputGuardrail{
		Name: name,
		Func: func(ctx context.Context, _ *Agent, input string) (GuardrailFunctionOutput, error) {
			res, err := runner.Run(ctx, checker, input)
			if err != nil {
				return GuardrailFunctionOutput{}, err
			}
			return GuardrailFunctionOutput{
				OutputInfo:        res.FinalOutput,
				TripwireTriggered: tripped(res.FinalOutput),
			}, nil
		},
	}
}

func (r *Runner) runInputGuardrails(ctx context.Context, agent *Agent, input string, result *RunResult) error {
	for _, g := range agent.inputGuardrails {
		out, err := g.Func(ctx, agent, input)
		if err != nil {
			return fmt.Errorf("input guardrail %s: %w", g.Name, err)
		}
		res := InputGuardrailResult{Guardrail: g, Output: out}
		result.InputGuardrailResults = append(result.InputGuardrailResults, res)
		if out.TripwireTriggered {
			return &InputGuardrailTripwireError{Result: res}
		}
	}
	return nil
}
