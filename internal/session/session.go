// ABOUTME: Session store contract and in-memory implementation
// ABOUTME: Holds the opaque bearer token produced by login and cleared by logout

package session

import (
	"errors"
	"os"
	"sync"
)

// ErrEmptyToken is returned when Set is called with an empty token.
var ErrEmptyToken = errors.New("empty token")

// Store holds the current bearer token.
type Store interface {
	// Get returns the token and whether one is present.
	Get() (string, bool)
	// Set replaces the stored token.
	Set(token string) error
	// Clear removes the token. Clearing an empty store is not an error.
	Clear() error
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the stored token.
func (m *Memory) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Set stores the token.
func (m *Memory) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

// Clear drops the token.
func (m *Memory) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

// envStore prefers a token taken from the environment over the wrapped store.
type envStore struct {
	Store
	mu       sync.RWMutex
	envToken string
}

// WithEnvToken wraps base so that the value of envVar, when non-empty, is returned
// by Get. Set and Clear go to base; Clear also forgets the environment token for
// the rest of the process so that logout always leaves the session absent.
func WithEnvToken(base Store, envVar string) Store {
	return &envStore{Store: base, envToken: os.Getenv(envVar)}
}

func (e *envStore) Get() (string, bool) {
	e.mu.RLock()
	tok := e.envToken
	e.mu.RUnlock()
	if tok != "" {
		return tok, true
	}
	return e.Store.Get()
}

func (e *envStore) Set(token string) error {
	if err := e.Store.Set(token); err != nil {
		return err
	}
	e.mu.Lock()
	e.envToken = ""
	e.mu.Unlock()
	return nil
}

func (e *envStore) Clear() error {
	e.mu.Lock()
	e.envToken = ""
	e.mu.Unlock()
	return e.Store.Clear()
}
