package models

import "time"

// MemoryEntry is a per-user key/value fact. Keys are unique per user.
type MemoryEntry struct {
	ID        int64
	UserID    int64
	Key       string
	Value     string
	UpdatedAt time.Time
}
