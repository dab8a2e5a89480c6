package components

import (
	openai "github.com/sashabaranov/go-openai"
)

// ToolCall is a function invocation requested by the model
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

func ToolCallsToOpenAI(src []ToolCall, dist *openai.ChatCompletionMessage) {
	list := make([]openai.ToolCall, 0, len(src))
	for _, v := range src {
		list = append(list, openai.ToolCall{
			ID:   v.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      v.Name,
				Arguments: v.Arguments,
			},
		})
	}
	dist.ToolCalls = list
}

func ToolCallsFromOpenAI(src []openai.ToolCall) []ToolCall {
	if len(src) == 0 {
		return nil
	}
	list := make([]ToolCall, 0, len(src))
	for _, v := range src {
		list = append(list, ToolCall{
			ID:        v.ID,
			Name:      v.Function.Name,
			Arguments: v.Function.Arguments,
		})
	}
	return list
}
