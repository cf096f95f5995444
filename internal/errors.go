package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrConversationNotFound is returned when a conversation id does not exist
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrCredentialNotFound is returned when no credential has been stored
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrInvalidRole is returned for roles other than user, assistant, system
	ErrInvalidRole = errors.New("invalid role")
	// ErrEmptyTitle is returned when creating a conversation without a title
	ErrEmptyTitle = errors.New("conversation title is empty")
)

// GatewayError represents a failed call to the backend gateway
type GatewayError struct {
	Op  string // "get_conversations", "create_conversation", ...
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// StorageError represents errors accessing storage files
type StorageError struct {
	Path string
	Op   string // "open", "migrate", "write", "read"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing stored data
type ParseError struct {
	Source string // "content", "timestamp"
	Key    string // block index, column name
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
