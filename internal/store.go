package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Snapshot is an immutable copy of the store state handed to subscribers
type Snapshot struct {
	Version       uint64
	Conversations []Conversation
	ActiveID      *int64
}

// StoreOption configures a ConversationStore
type StoreOption func(*ConversationStore)

// WithTitleBase sets the label used for default conversation titles
func WithTitleBase(base string) StoreOption {
	return func(s *ConversationStore) {
		if base != "" {
			s.titleBase = base
		}
	}
}

// ConversationStore mirrors the backend's conversations in memory.
//
// Every mutating operation calls the gateway first and only touches local
// state once the call has succeeded. Gateway calls run without holding the
// state lock; the local update that follows is applied under mu in one step,
// so readers never observe a half-applied operation. Creations additionally
// hold createMu across title allocation and the gateway call.
type ConversationStore struct {
	gateway    ConversationGateway
	normalizer *Normalizer
	titleBase  string

	createMu sync.Mutex

	mu            sync.Mutex
	conversations []Conversation
	activeID      *int64
	version       uint64

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// NewConversationStore creates an empty store with no active selection
func NewConversationStore(gateway ConversationGateway, opts ...StoreOption) *ConversationStore {
	s := &ConversationStore{
		gateway:     gateway,
		normalizer:  NewNormalizer(),
		titleBase:   DefaultTitleBase,
		subscribers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the local collection with the backend's conversation list.
// The current selection is kept if it still exists; otherwise the first
// conversation becomes active.
func (s *ConversationStore) Load(ctx context.Context) error {
	op := newOpID()
	LogDebug("[%s] load: fetching conversations", op)

	raws, err := s.gateway.GetConversations(ctx)
	if err != nil {
		return s.fail(op, "get_conversations", err)
	}
	conversations := s.normalizer.NormalizeAllConversations(raws)

	s.mu.Lock()
	s.conversations = conversations
	if s.activeID == nil || s.indexOf(*s.activeID) < 0 {
		s.activeID = s.firstID()
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	LogDebug("[%s] load: %d conversation(s)", op, len(conversations))
	s.publish(snap)
	return nil
}

// Create asks the backend for a new conversation named with the next free
// default title, puts it at the front of the collection and selects it.
func (s *ConversationStore) Create(ctx context.Context) (*Conversation, error) {
	op := newOpID()

	s.createMu.Lock()
	defer s.createMu.Unlock()

	title := NextTitle(s.Titles(), s.titleBase)
	LogDebug("[%s] create: title=%q", op, title)

	raw, err := s.gateway.CreateConversation(ctx, title)
	if err != nil {
		return nil, s.fail(op, "create_conversation", err)
	}

	conv := Conversation{
		ID:          raw.ID,
		Title:       raw.Title,
		CreatedAt:   raw.CreatedAt,
		LLMProvider: raw.LLMProvider,
		Messages:    []Message{},
	}

	s.mu.Lock()
	if i := s.indexOf(conv.ID); i >= 0 {
		LogWarn("[%s] create: backend returned existing id %d, replacing local copy", op, conv.ID)
		s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
	}
	s.conversations = append([]Conversation{conv}, s.conversations...)
	id := conv.ID
	s.activeID = &id
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	out := conv.Clone()
	return &out, nil
}

// Remove deletes a conversation on the backend and then locally. Removing
// the active conversation selects the first remaining one, or clears the
// selection when none remain.
func (s *ConversationStore) Remove(ctx context.Context, id int64) error {
	op := newOpID()
	LogDebug("[%s] remove: id=%d", op, id)

	if err := s.gateway.DeleteConversation(ctx, id); err != nil {
		return s.fail(op, "delete_conversation", err)
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		LogDebug("[%s] remove: id=%d not present locally", op, id)
		return nil
	}
	s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
	if s.activeID != nil && *s.activeID == id {
		s.activeID = s.firstID()
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// Select makes id the active conversation. Ids that are not in the
// collection are ignored and Select reports false.
func (s *ConversationStore) Select(id int64) bool {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		LogDebug("select: ignoring unknown conversation %d", id)
		return false
	}
	s.activeID = &id
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

// AppendMessage encodes content, stores it through the backend and appends
// the stored message to its conversation. The appended message carries the
// caller's content value, not a decoded copy of the stored body. If the
// conversation is no longer present locally the backend write still happens
// but local state is left alone.
func (s *ConversationStore) AppendMessage(ctx context.Context, conversationID int64, role Role, content MessageContent) (*Message, error) {
	op := newOpID()

	encoded, err := EncodeContent(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message content: %w", err)
	}
	LogDebug("[%s] append: conversation=%d role=%s bytes=%d", op, conversationID, role, len(encoded))

	raw, err := s.gateway.AddMessage(ctx, conversationID, role, encoded)
	if err != nil {
		return nil, s.fail(op, "add_message", err)
	}

	msg := Message{
		ID:             raw.ID,
		ConversationID: raw.ConversationID,
		Role:           raw.Role,
		Content:        content,
		CreatedAt:      raw.CreatedAt,
	}

	s.mu.Lock()
	i := s.indexOf(conversationID)
	if i < 0 || s.conversations[i].hasMessage(msg.ID) {
		s.mu.Unlock()
		LogDebug("[%s] append: conversation %d not present locally, skipping", op, conversationID)
		out := msg.Clone()
		return &out, nil
	}
	s.conversations[i].Messages = append(s.conversations[i].Messages, msg.Clone())
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	out := msg.Clone()
	return &out, nil
}

// Conversations returns a copy of the collection in display order
func (s *ConversationStore) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneConversations(s.conversations)
}

// Conversation returns a copy of the conversation with the given id
func (s *ConversationStore) Conversation(id int64) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Conversation{}, false
	}
	return s.conversations[i].Clone(), true
}

// ActiveID returns the active conversation id, if any
func (s *ConversationStore) ActiveID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == nil {
		return 0, false
	}
	return *s.activeID, true
}

// ActiveConversation returns a copy of the active conversation, if any
func (s *ConversationStore) ActiveConversation() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == nil {
		return Conversation{}, false
	}
	i := s.indexOf(*s.activeID)
	if i < 0 {
		return Conversation{}, false
	}
	return s.conversations[i].Clone(), true
}

// Titles returns the titles of all local conversations
func (s *ConversationStore) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, len(s.conversations))
	for i, c := range s.conversations {
		titles[i] = c.Title
	}
	return titles
}

// Snapshot returns a copy of the current state
func (s *ConversationStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every successful state
// change. Snapshots may arrive out of order under concurrent mutation;
// compare Version to discard stale ones. The returned func unsubscribes.
func (s *ConversationStore) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

func (s *ConversationStore) fail(op, gatewayOp string, err error) error {
	LogError("[%s] %s failed: %v", op, gatewayOp, err)
	return &GatewayError{Op: gatewayOp, Err: err}
}

func (s *ConversationStore) publish(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// commitLocked bumps the version and returns the new snapshot. mu must be held.
func (s *ConversationStore) commitLocked() Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *ConversationStore) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:       s.version,
		Conversations: cloneConversations(s.conversations),
	}
	if s.activeID != nil {
		id := *s.activeID
		snap.ActiveID = &id
	}
	return snap
}

func (s *ConversationStore) indexOf(id int64) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ConversationStore) firstID() *int64 {
	if len(s.conversations) == 0 {
		return nil
	}
	id := s.conversations[0].ID
	return &id
}

func cloneConversations(in []Conversation) []Conversation {
	out := make([]Conversation, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func newOpID() string {
	return uuid.NewString()[:8]
}
