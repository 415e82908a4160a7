// Package models holds the records persisted by the chat store.
package models
