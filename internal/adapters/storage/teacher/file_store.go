package teacher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domain "mergington/internal/domain/teacher"
)

// FileStore holds the credentials read from a JSON or YAML file at startup.
type FileStore struct {
	path        string
	credentials []domain.Credential
}

// NewFileStore builds a store over an already-loaded credential list.
// PRE: none
// POST: Returns a store that answers from a copy of creds
func NewFileStore(creds []domain.Credential) *FileStore {
	return &FileStore{credentials: append([]domain.Credential(nil), creds...)}
}

// LoadFileStore reads the credential file at path.
// Failures never escape: a missing, unreadable or malformed file yields an
// empty store, so every teacher is locked out until the file is fixed.
// PRE: none
// POST: Returns a usable store (possibly empty)
func LoadFileStore(path string) *FileStore {
	ensureDir(filepath.Dir(path))

	creds, err := readCredentials(path)
	if err != nil {
		slog.Warn("teacher_credentials_unavailable", "path", path, "error", err.Error())
		creds = nil
	}
	s := NewFileStore(creds)
	s.path = path
	slog.Info("teacher_credentials_loaded", "path", path, "count", len(s.credentials))
	return s
}

// Verify reports whether username/password matches a stored credential.
// PRE: none
// POST: Returns true only for an exact match of both fields
func (s *FileStore) Verify(_ context.Context, username, password string) bool {
	for _, c := range s.credentials {
		if c.Matches(username, password) {
			return true
		}
	}
	return false
}

// Exists reports whether a credential with username is stored.
// PRE: none
// POST: Returns false for the empty username
func (s *FileStore) Exists(_ context.Context, username string) bool {
	for _, c := range s.credentials {
		if c.HasUsername(username) {
			return true
		}
	}
	return false
}

// Count returns the number of loaded credentials.
func (s *FileStore) Count() int {
	return len(s.credentials)
}

// Path returns the file the store was loaded from, if any.
func (s *FileStore) Path() string {
	return s.path
}

// ensureDir creates dir when missing. Best effort: a read-only deployment
// simply ends up with no credential file.
func ensureDir(dir string) {
	if dir == "" || dir == "." {
		return
	}
	if _, err := os.Stat(dir); err == nil {
		return
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		slog.Debug("teacher_credentials_mkdir_failed", "dir", dir, "error", err.Error())
	}
}

func readCredentials(path string) ([]domain.Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCredentials(data, isYAML(path))
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// parseCredentials extracts the "teachers" list from a credential document.
// Entries that are not objects are skipped; non-string fields count as missing.
func parseCredentials(data []byte, asYAML bool) ([]domain.Credential, error) {
	var doc map[string]any
	if asYAML {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	raw, ok := doc["teachers"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("\"teachers\" must be a list, got %T", raw)
	}

	creds := make([]domain.Credential, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			slog.Warn("teacher_credential_skipped", "index", i, "reason", "not an object")
			continue
		}
		username, _ := entry["username"].(string)
		password, _ := entry["password"].(string)
		creds = append(creds, domain.Credential{Username: username, Password: password})
	}
	return creds, nil
}
