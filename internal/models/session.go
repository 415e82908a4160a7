package models

import "time"

const (
	DefaultSessionTitle   = "New Chat"
	DefaultCharacterImage = "default.png"
)

// ChatSession is a named conversation owned by one user. An empty
// SystemPrompt means the conversation runs without a system instruction.
type ChatSession struct {
	ID             int64
	UserID         int64
	Title          string
	SystemPrompt   string
	CharacterImage string
	CreatedAt      time.Time
}
