// ABOUTME: File-backed session store persisting the bearer token on disk
// ABOUTME: Token lives under XDG_CONFIG_HOME/boter/token with 0600 permissions

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File persists the token in a single file. The file is read lazily on the
// first Get and cached afterwards.
type File struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	token  string
	loaded bool
}

// NewFile creates a file-backed store at path. The file does not need to exist.
func NewFile(path string) *File {
	return &File{
		path:   path,
		logger: slog.Default().With("component", "session"),
	}
}

// DefaultPath returns the token path.
// Priority: XDG_CONFIG_HOME/boter/token > ~/.config/boter/token
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "token" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "boter", "token")
}

// Path returns the token file location.
func (f *File) Path() string {
	return f.path
}

// Get returns the stored token, reading the file on first use.
func (f *File) Get() (string, bool) {
	f.mu.RLock()
	if f.loaded {
		defer f.mu.RUnlock()
		return f.token, f.token != ""
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded {
		f.token = f.read()
		f.loaded = true
	}
	return f.token, f.token != ""
}

// read must be called with mu held.
func (f *File) read() string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("reading token file", "path", f.path, "error", err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Set writes the token atomically (temp file + rename).
func (f *File) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(token + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting token file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing token file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}

	f.token = token
	f.loaded = true
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = ""
	f.loaded = true
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
