package internal

import "context"

// ConversationGateway is the backend contract for conversation data. The
// backend owns persistence and id assignment; every call either succeeds
// completely or leaves backend state unchanged.
type ConversationGateway interface {
	// GetConversations returns every conversation with its messages in
	// storage form.
	GetConversations(ctx context.Context) ([]RawConversation, error)
	// CreateConversation creates an empty conversation with the given title.
	CreateConversation(ctx context.Context, title string) (*RawConversation, error)
	// DeleteConversation removes a conversation and its messages. It fails
	// with ErrConversationNotFound for unknown ids.
	DeleteConversation(ctx context.Context, id int64) error
	// AddMessage stores a message and returns it with its assigned id and
	// timestamp.
	AddMessage(ctx context.Context, conversationID int64, role Role, content string) (*RawMessage, error)
}

// CredentialGateway is the backend contract for the API credential
type CredentialGateway interface {
	// ProbeCredential succeeds iff a usable credential is configured.
	ProbeCredential(ctx context.Context) error
	SetCredential(ctx context.Context, value string) error
}

// Gateway is the full backend command interface
type Gateway interface {
	ConversationGateway
	CredentialGateway
}
