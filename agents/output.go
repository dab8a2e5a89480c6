package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OutputMode selects how a structured output type is requested from the model
type OutputMode string

const (
	// JSONSchemaOutput uses the strict json_schema response format
	JSONSchemaOutput OutputMode = "json_schema"
	// JSONObjectOutput asks for json_object and puts the schema in the system prompt,
	// for OpenAI compatible endpoints without json_schema support
	JSONObjectOutput OutputMode = "json_object"
)

// ErrInvalidOutput the final reply does not match the agent output type
var ErrInvalidOutput = errors.New("invalid agent output")

var validate = validator.New(validator.WithRequiredStructEnabled())

type outputType struct {
	name   string
	schema *jsonschema.Definition
	newFn  func() any
}

// WithOutputType makes the agent reply with a JSON object decoded into T.
// name identifies the schema in the request and must match ^[a-zA-Z0-9_-]+$
func WithOutputType[T any](name string) Option {
	return func(c *Config) {
		var zero T
		schema, err := jsonschema.GenerateSchemaForType(zero)
		if err != nil {
			c.err = errors.Join(c.err, fmt.Errorf("output type %s: %w", name, err))
			return
		}
		c.output = &outputType{
			name:   name,
			schema: schema,
			newFn:  func() any { return new(T) },
		}
	}
}

func (o *outputType) responseFormat(mode OutputMode) *openai.ChatCompletionResponseFormat {
	if mode == JSONObjectOutput {
		return &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   o.name,
			Schema: o.schema,
			Strict: true,
		},
	}
}

func (o *outputType) instructions() string {
	bs, _ := json.Marshal(o.schema)
	return "# OUTPUT FORMAT\nReply with a single JSON object, without markdown fences, matching this JSON schema:\n" + string(bs)
}

// decode parses content into a new *T and validates it
func (o *outputType) decode(content string) (any, error) {
	out := o.newFn()
	if err := json.Unmarshal([]byte(stripCodeFence(content)), out); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidOutput, o.name, err)
	}
	if reflect.TypeOf(out).Elem().Kind() == reflect.Struct {
		if err := validate.Struct(out); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidOutput, o.name, err)
		}
	}
	return out, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add in json_object mode
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[idx+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func (a *Agent) decodeOutput(content string) (any, error) {
	if a.output == nil {
		return content, nil
	}
	return a.output.decode(content)
}
