package internal

import (
	"context"
	"database/sql"
	"fmt"
)

// App owns the database handle and the single store and credential gate
// instances for one process
type App struct {
	Config      *Config
	Gateway     *SQLiteGateway
	Store       *ConversationStore
	Credentials *CredentialGate

	db   *sql.DB
	keys *FileKeyStore
}

// OpenApp opens the database and wires the gateway, store and credential
// gate. The store starts empty; call Store.Load to populate it.
func OpenApp(ctx context.Context, cfg *Config) (*App, error) {
	db, err := OpenDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	keys := NewFileKeyStore(cfg.KeyFile)
	gateway := NewSQLiteGateway(db, keys, WithProvider(cfg.Provider))

	return &App{
		Config:      cfg,
		Gateway:     gateway,
		Store:       NewConversationStore(gateway, WithTitleBase(cfg.TitleBase)),
		Credentials: NewCredentialGate(gateway),
		db:          db,
		keys:        keys,
	}, nil
}

// Responder builds an LLM responder from the stored credential
func (a *App) Responder(ctx context.Context) (Responder, error) {
	if err := a.Credentials.Probe(ctx); err != nil {
		return nil, fmt.Errorf("no usable credential, run `chat-mirror key set` first: %w", err)
	}
	apiKey, err := a.keys.Retrieve()
	if err != nil {
		return nil, err
	}
	return NewOpenAIResponder(apiKey, a.Config.BaseURL, a.Config.Model), nil
}

// KeyFile returns the location of the stored credential
func (a *App) KeyFile() string {
	return a.keys.Path()
}

// Close releases the database
func (a *App) Close() error {
	return a.db.Close()
}
