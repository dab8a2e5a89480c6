package tools

import (
	"context"
)

// Tool is a function the model may call by name with JSON arguments
type Tool interface {
	// Name is the function name exposed to the model
	Name() string
	// Description tells the model when to use the tool
	Description() string
	// Parameters is the JSON schema of the arguments object
	Parameters() any
	// Call runs the tool with raw JSON arguments and returns the text handed back to the model
	Call(ctx context.Context, arguments string) (string, error)
}
