package model

// Role identifies the author of a prompt message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// PromptMessage is one message of an assembled prompt. A full prompt is
// always exactly one system message followed by one user message.
type PromptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
