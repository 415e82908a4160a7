package models

import "time"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Message is one turn of a chat session.
type Message struct {
	ID        int64
	SessionID int64
	Role      Role
	Content   string
	Timestamp time.Time
}
