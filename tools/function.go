package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bububa/qa-agents/schema"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Function adapts a typed Go function into a Tool.
// The argument schema is reflected from I, arguments are decoded and validated before fn runs.
type Function[I any, O any] struct {
	Config
	fn     func(context.Context, *I) (O, error)
	params *jsonschema.Definition
	err    error
}

var _ Tool = (*Function[struct{}, string])(nil)

// NewFunction returns a new Function tool
func NewFunction[I any, O any](fn func(context.Context, *I) (O, error), opts ...Option) *Function[I, O] {
	ret := &Function[I, O]{fn: fn}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	var zero I
	ret.params, ret.err = jsonschema.GenerateSchemaForType(zero)
	return ret
}

func (f *Function[I, O]) Name() string {
	return f.Title()
}

func (f *Function[I, O]) Parameters() any {
	if f.params == nil {
		return &jsonschema.Definition{Type: jsonschema.Object, Properties: map[string]jsonschema.Definition{}}
	}
	return f.params
}

// Run executes the tool with typed input
func (f *Function[I, O]) Run(ctx context.Context, input *I) (O, error) {
	if fn := f.startHook; fn != nil {
		fn(ctx, f, input)
	}
	out, err := f.fn(ctx, input)
	if err != nil {
		if fn := f.errorHook; fn != nil {
			fn(ctx, f, input, err)
		}
		return out, err
	}
	if fn := f.endHook; fn != nil {
		fn(ctx, f, input, out)
	}
	return out, nil
}

// Call decodes JSON arguments, validates them and runs the tool
func (f *Function[I, O]) Call(ctx context.Context, arguments string) (string, error) {
	if f.err != nil {
		return "", fmt.Errorf("tool %s: invalid parameters schema: %w", f.Name(), f.err)
	}
	input := new(I)
	if arguments = strings.TrimSpace(arguments); arguments == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), input); err != nil {
		return "", fmt.Errorf("tool %s: invalid arguments: %w", f.Name(), err)
	}
	if err := validate.Struct(input); err != nil {
		return "", fmt.Errorf("tool %s: invalid arguments: %w", f.Name(), err)
	}
	out, err := f.Run(ctx, input)
	if err != nil {
		return "", err
	}
	return schema.Stringify(out), nil
}
