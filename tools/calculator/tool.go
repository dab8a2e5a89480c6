package calculator

import (
	"context"

	"go.uber.org/zap"

	"github.com/bububa/qa-agents/schema"
	"github.com/bububa/qa-agents/tools"
)

// Input computes a simple four-operation arithmetic expression
type Input struct {
	// Expression Mathematical expression to evaluate. For example, '1 + 2' or '3 * 4'.
	Expression string `json:"expression" description:"Arithmetic expression using numbers, + - * / and parentheses, e.g. '1 + 2' or '3 * (4 - 1)'."`
}

func NewInput(exp string) *Input {
	return &Input{
		Expression: exp,
	}
}

// Output Schema for the output of the calculator tool.
// Result is 0 whenever OK is false, Error then tells why.
type Output struct {
	// Result Result of the calculation
	Result float64 `json:"result"`
	// OK reports whether Result was actually computed
	OK bool `json:"ok"`
	// Error explains a failed evaluation
	Error string `json:"error,omitempty"`
}

type Tool struct {
	*tools.Function[Input, Output]
}

func New(opts ...tools.Option) *Tool {
	ret := new(Tool)
	defaults := []tools.Option{
		tools.WithTitle("calculator"),
		tools.WithDescription("计算简单的四则运算表达式。Evaluates an arithmetic expression with + - * / and parentheses."),
	}
	ret.Function = tools.NewFunction(ret.calculate, append(defaults, opts...)...)
	return ret
}

// calculate never fails: evaluation errors degrade to a zero result tagged with OK=false
func (t *Tool) calculate(ctx context.Context, input *Input) (Output, error) {
	user, _ := schema.UserFromContext(ctx)
	t.Logger().Info("Start calculation for "+user.UserName, zap.String("user_id", user.UserID), zap.String("expression", input.Expression))
	v, err := Evaluate(input.Expression)
	if err != nil {
		t.Logger().Warn("Calculation error", zap.String("expression", input.Expression), zap.Error(err))
		return Output{Error: err.Error()}, nil
	}
	return Output{Result: v, OK: true}, nil
}
