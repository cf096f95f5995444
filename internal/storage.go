package internal

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultProvider is recorded on conversations when none is configured
const DefaultProvider = "openai"

// SQLiteGateway implements Gateway on top of a SQLite database and a KeyStore
type SQLiteGateway struct {
	db       *sql.DB
	keys     KeyStore
	provider string
	now      func() time.Time
}

// GatewayOption configures a SQLiteGateway
type GatewayOption func(*SQLiteGateway)

// WithProvider sets the llm_provider recorded on new conversations
func WithProvider(provider string) GatewayOption {
	return func(g *SQLiteGateway) {
		if provider != "" {
			g.provider = provider
		}
	}
}

// WithClock overrides the time source used for created_at
func WithClock(now func() time.Time) GatewayOption {
	return func(g *SQLiteGateway) {
		g.now = now
	}
}

// NewSQLiteGateway creates a gateway over an already migrated database
func NewSQLiteGateway(db *sql.DB, keys KeyStore, opts ...GatewayOption) *SQLiteGateway {
	g := &SQLiteGateway{
		db:       db,
		keys:     keys,
		provider: DefaultProvider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetConversations returns all conversations, newest first, each with its
// messages in insertion order
func (g *SQLiteGateway) GetConversations(ctx context.Context) ([]RawConversation, error) {
	rows, err := g.db.QueryContext(ctx,
		"SELECT id, title, created_at, llm_provider FROM conversations ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, errors.Wrap(err, "query conversations failed")
	}

	var conversations []RawConversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		conversations = append(conversations, *conv)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.Wrap(err, "rows iteration error")
	}
	rows.Close()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i := range conversations {
		i := i
		eg.Go(func() error {
			messages, err := g.messagesFor(egCtx, conversations[i].ID)
			if err != nil {
				return err
			}
			conversations[i].Messages = messages
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return conversations, nil
}

// CreateConversation inserts a conversation and returns it with no messages
func (g *SQLiteGateway) CreateConversation(ctx context.Context, title string) (*RawConversation, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction failed")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO conversations (title, created_at, llm_provider) VALUES (?, ?, ?)",
		title, formatDBTime(g.now()), g.provider)
	if err != nil {
		return nil, errors.Wrap(err, "insert conversation failed")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "read conversation id failed")
	}

	row := tx.QueryRowContext(ctx,
		"SELECT id, title, created_at, llm_provider FROM conversations WHERE id = ?", id)
	conv, err := scanConversation(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit failed")
	}

	conv.Messages = []RawMessage{}
	return conv, nil
}

// DeleteConversation removes a conversation and its messages in one
// transaction
func (g *SQLiteGateway) DeleteConversation(ctx context.Context, id int64) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction failed")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE conversation_id = ?", id); err != nil {
		return errors.Wrapf(err, "delete messages of conversation %d failed", id)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete conversation %d failed", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows failed")
	}
	if n == 0 {
		return errors.Wrapf(ErrConversationNotFound, "conversation %d", id)
	}

	return errors.Wrap(tx.Commit(), "commit failed")
}

// AddMessage stores a message in an existing conversation
func (g *SQLiteGateway) AddMessage(ctx context.Context, conversationID int64, role Role, content string) (*RawMessage, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction failed")
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM conversations WHERE id = ?", conversationID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrConversationNotFound, "conversation %d", conversationID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "lookup conversation failed")
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		conversationID, string(role), content, formatDBTime(g.now()))
	if err != nil {
		return nil, errors.Wrap(err, "insert message failed")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "read message id failed")
	}

	row := tx.QueryRowContext(ctx,
		"SELECT id, conversation_id, role, content, created_at FROM messages WHERE id = ?", id)
	msg, err := scanMessage(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit failed")
	}
	return msg, nil
}

// ProbeCredential succeeds iff the key store holds a credential
func (g *SQLiteGateway) ProbeCredential(_ context.Context) error {
	if !g.keys.Exists() {
		return ErrCredentialNotFound
	}
	return nil
}

// SetCredential replaces the stored credential
func (g *SQLiteGateway) SetCredential(_ context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("credential is empty")
	}
	return errors.Wrap(g.keys.Store(value), "store credential failed")
}

func (g *SQLiteGateway) messagesFor(ctx context.Context, conversationID int64) ([]RawMessage, error) {
	rows, err := g.db.QueryContext(ctx,
		"SELECT id, conversation_id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, id ASC",
		conversationID)
	if err != nil {
		return nil, errors.Wrapf(err, "query messages of conversation %d failed", conversationID)
	}
	defer rows.Close()

	messages := []RawMessage{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows iteration error")
	}
	return messages, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (*RawConversation, error) {
	var conv RawConversation
	var createdAt string
	if err := row.Scan(&conv.ID, &conv.Title, &createdAt, &conv.LLMProvider); err != nil {
		return nil, errors.Wrap(err, "scan conversation failed")
	}
	t, err := parseDBTime(createdAt)
	if err != nil {
		return nil, err
	}
	conv.CreatedAt = t
	return &conv, nil
}

func scanMessage(row rowScanner) (*RawMessage, error) {
	var msg RawMessage
	var role, createdAt string
	if err := row.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &createdAt); err != nil {
		return nil, errors.Wrap(err, "scan message failed")
	}
	t, err := parseDBTime(createdAt)
	if err != nil {
		return nil, err
	}
	msg.Role = Role(role)
	msg.CreatedAt = t
	return &msg, nil
}
