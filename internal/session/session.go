// Package session persists conversation history as JSONL files, one per
// session key.
package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// StoredMessage is one conversation turn on disk.
type StoredMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the conversation history for one session key.
type Session struct {
	Key       string          `json:"key"`
	Messages  []StoredMessage `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AddMessage appends a turn to the session.
func (s *Session) AddMessage(role, content string) {
	now := time.Now()
	s.Messages = append(s.Messages, StoredMessage{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	s.UpdatedAt = now
}

// Manager loads and saves sessions under a directory.
type Manager struct {
	dir string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager rooted at dir. An empty dir defaults
// to ~/.logsentry/sessions.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".logsentry", "sessions")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &Manager{
		dir:      dir,
		sessions: make(map[string]*Session),
	}, nil
}

// GetOrCreate returns the session for key, loading it from disk on first
// access or creating a fresh one.
func (m *Manager) GetOrCreate(key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		return s, nil
	}

	s, err := m.load(key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		now := time.Now()
		s = &Session{Key: key, CreatedAt: now, UpdatedAt: now}
	}
	m.sessions[key] = s
	return s, nil
}

// Save writes the session to disk as JSONL, one message per line.
func (m *Manager) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tmp := m.path(s.Key) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, msg := range s.Messages {
		if err := enc.Encode(msg); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encoding session message: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing session file: %w", err)
	}
	return os.Rename(tmp, m.path(s.Key))
}

// Delete removes a session from memory and disk.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, key)
	if err := os.Remove(m.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// List returns the keys of all persisted sessions, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".jsonl"))
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Manager) path(key string) string {
	return filepath.Join(m.dir, sanitizeKey(key)+".jsonl")
}

// load reads a session file if present; returns (nil, nil) when absent.
func (m *Manager) load(key string) (*Session, error) {
	f, err := os.Open(m.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close()

	s := &Session{Key: key}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg StoredMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			// Skip corrupted lines rather than losing the whole session.
			continue
		}
		s.Messages = append(s.Messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if len(s.Messages) > 0 {
		s.CreatedAt = s.Messages[0].Timestamp
		s.UpdatedAt = s.Messages[len(s.Messages)-1].Timestamp
	} else {
		now := time.Now()
		s.CreatedAt = now
		s.UpdatedAt = now
	}
	return s, nil
}

// sanitizeKey makes a session key safe to use as a filename.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
