// Package session holds the bounded conversational memory shared across
// interactive turns, persisted between runs as JSON.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
)

// DefaultMaxTurns bounds the conversation so prompt sizes stay bounded.
// Oldest turns are evicted first once the bound is exceeded.
const DefaultMaxTurns = 50

// ToolCall pairs one tool invocation with the result it produced.
type ToolCall struct {
	Request kubectl.Request `json:"request"`
	Result  kubectl.Result  `json:"result"`
}

// Turn is one query/answer exchange, including every tool call made while
// answering it. Append-only once stored.
type Turn struct {
	Query     string     `json:"query"`
	Namespace string     `json:"namespace,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Answer    string     `json:"answer"`
	Timestamp time.Time  `json:"timestamp"`
}

// Session is an ordered, bounded sequence of turns sharing conversational
// context.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Turns     []Turn    `json:"turns"`
}

// Store owns a session for its lifetime. All access goes through the mutex;
// history is handed out as deep-copied snapshots so concurrent appends are
// never visible mid-iteration.
type Store struct {
	mu       sync.Mutex
	session  Session
	maxTurns int
	path     string
}

// Option configures a Store.
type Option func(*Store) error

// WithMaxTurns sets the eviction bound.
func WithMaxTurns(n int) Option {
	return func(s *Store) error {
		if n < 1 {
			return fmt.Errorf("max turns must be positive, got %d", n)
		}
		s.maxTurns = n
		return nil
	}
}

// WithPath sets the persistence location. An existing file is loaded so a
// new interactive run continues the previous session.
func WithPath(path string) Option {
	return func(s *Store) error {
		s.path = path
		return nil
	}
}

// DefaultPath returns the per-user history location,
// ~/.kube-assistant/history.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".kube-assistant", "history.json"), nil
}

// NewStore creates a store with a fresh session, or the persisted one when a
// path is configured and a history file exists there.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{
		maxTurns: DefaultMaxTurns,
		session: Session{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
		},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.path != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SessionID returns the id of the owned session.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ID
}

// Append adds a turn and evicts from the oldest end past the bound. The
// turn just appended is never the one evicted.
func (s *Store) Append(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Turns = append(s.session.Turns, turn)
	s.evictLocked(s.maxTurns)
}

// History returns an immutable snapshot of the turns at call time.
func (s *Store) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTurns(s.session.Turns)
}

// Truncate drops oldest turns until at most maxTurns remain.
func (s *Store) Truncate(maxTurns int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(maxTurns)
}

func (s *Store) evictLocked(maxTurns int) {
	if maxTurns < 1 || len(s.session.Turns) <= maxTurns {
		return
	}
	excess := len(s.session.Turns) - maxTurns
	s.session.Turns = append([]Turn(nil), s.session.Turns[excess:]...)
}

// Save persists the session when a path is configured. Called after every
// turn in interactive mode so an interrupt loses at most the current turn.
func (s *Store) Save() error {
	s.mu.Lock()
	session := s.snapshotLocked()
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write history file %s: %w", path, err)
	}
	return nil
}

// Clear forgets all turns and removes the persisted file if present.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.session.Turns = nil
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove history file %s: %w", path, err)
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read history file %s: %w", s.path, err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse history file %s: %w", s.path, err)
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	s.session = session
	s.evictLocked(s.maxTurns)
	return nil
}

func (s *Store) snapshotLocked() Session {
	out := s.session
	out.Turns = copyTurns(s.session.Turns)
	return out
}

func copyTurns(turns []Turn) []Turn {
	if turns == nil {
		return nil
	}
	out := make([]Turn, len(turns))
	for i, turn := range turns {
		out[i] = turn
		out[i].ToolCalls = append([]ToolCall(nil), turn.ToolCalls...)
	}
	return out
}
