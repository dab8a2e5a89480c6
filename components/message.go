package components

import (
	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"
)

// NewTurnID returns a new turn ID.
func NewTurnID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'tool')
type MessageRole = string

const (
	SystemRole    MessageRole = openai.ChatMessageRoleSystem
	UserRole      MessageRole = openai.ChatMessageRoleUser
	AssistantRole MessageRole = openai.ChatMessageRoleAssistant
	ToolRole      MessageRole = openai.ChatMessageRoleTool
)

// Message Represents a message in the conversation transcript.
type Message struct {
	// role is the role of the message sender (e.g., 'user', 'system', 'tool')
	role MessageRole
	// content is the text content of the message
	content string
	// agent is the name of the agent which produced an assistant message
	agent string
	// toolCalls are the tool invocations requested by an assistant message
	toolCalls []ToolCall
	// toolCallID links a tool message to the call it answers
	toolCallID string
	//	turnID is Unique identifier for the turn this message belongs to.
	turnID string
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content string) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// NewToolMessage returns a tool result message answering callID
func NewToolMessage(callID string, content string) *Message {
	return &Message{
		role:       ToolRole,
		content:    content,
		toolCallID: callID,
	}
}

// SetAgent set the name of the agent which produced the message
func (m *Message) SetAgent(name string) *Message {
	m.agent = name
	return m
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Content returns message content
func (m Message) Content() string {
	return m.content
}

// Agent returns the producing agent name
func (m Message) Agent() string {
	return m.agent
}

// ToolCalls returns tool calls requested by the message
func (m Message) ToolCalls() []ToolCall {
	return m.toolCalls
}

// ToolCallID returns the id of the call a tool message answers
func (m Message) ToolCallID() string {
	return m.toolCallID
}

// TurnID returns message turnID
func (m Message) TurnID() string {
	return m.turnID
}

// ToOpenAI convert message to openai ChatCompletionMessage
func (m Message) ToOpenAI(dist *openai.ChatCompletionMessage) {
	dist.Role = m.role
	dist.Content = m.content
	dist.ToolCallID = m.toolCallID
	dist.ToolCalls = nil
	if len(m.toolCalls) > 0 {
		ToolCallsToOpenAI(m.toolCalls, dist)
	}
}

// MessageFromOpenAI converts a model reply into a Message
func MessageFromOpenAI(src *openai.ChatCompletionMessage) *Message {
	msg := &Message{
		role:       src.Role,
		content:    src.Content,
		toolCallID: src.ToolCallID,
	}
	if msg.role == "" {
		msg.role = AssistantRole
	}
	msg.toolCalls = ToolCallsFromOpenAI(src.ToolCalls)
	return msg
}
