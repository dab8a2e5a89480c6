package schema

import (
	"encoding/json"
	"fmt"
)

// Schema is message content schema interface
type Schema interface {
	String() string
}

// Stringify renders a tool or agent output as message content.
// Plain strings pass through, everything else is encoded as JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case String:
		return string(t)
	case *String:
		return t.String()
	case *string:
		return *t
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(bs)
}
