// Package kvstore persists small JSON documents by logical key, one file per key.
package kvstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Logical keys accepted by the store.
const (
	KeyProgress = "savingsProgress"
	KeyHistory  = "calcHistory"
	KeyTheme    = "themeVars"
)

var (
	// ErrUnknownKey is returned for keys outside the allowed set.
	ErrUnknownKey = errors.New("invalid key")
	// ErrInvalidJSON is returned when a write payload does not parse.
	ErrInvalidJSON = errors.New("invalid JSON")
)

var defaults = map[string]json.RawMessage{
	KeyProgress: json.RawMessage(`{"amount":0,"day":0,"isSet":false,"dailyRate":0.05}`),
	KeyHistory:  json.RawMessage(`[]`),
	KeyTheme:    json.RawMessage(`{}`),
}

// Keys returns the allowed keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the payload served for key when nothing valid is stored.
func Default(key string) (json.RawMessage, error) {
	d, ok := defaults[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return append(json.RawMessage(nil), d...), nil
}

// Change describes a successful write.
type Change struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
	At    time.Time       `json:"at"`
}

// Store reads and writes <dir>/<key>.json.
type Store struct {
	dir string

	mu    sync.Mutex
	hooks []func(Change)
}

// Open returns a store rooted at dir. The directory is created on first write.
func Open(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the key files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// OnChange registers fn to run after every successful Put.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Get returns the stored document for key, or its default when the file is
// missing, empty, unreadable or not valid JSON.
func (s *Store) Get(key string) (json.RawMessage, error) {
	def, err := Default(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		return def, nil
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return def, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return def, nil
	}
	return buf.Bytes(), nil
}

// Put replaces the document for key. The payload is validated, indented and
// written through a temporary file so readers never see a partial write.
func (s *Store) Put(key string, raw []byte) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if !json.Valid(raw) {
		return ErrInvalidJSON
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "    "); err != nil {
		return ErrInvalidJSON
	}
	pretty.WriteByte('\n')

	s.mu.Lock()
	err := s.writeFile(key, pretty.Bytes())
	hooks := append([]func(Change){}, s.hooks...)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	var compact bytes.Buffer
	_ = json.Compact(&compact, raw)
	change := Change{Key: key, Value: compact.Bytes(), At: time.Now()}
	for _, fn := range hooks {
		fn(change)
	}
	return nil
}

func (s *Store) writeFile(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// Load decodes the document for key into a T. A document that decodes
// badly yields T's decoding of the default instead.
func Load[T any](s *Store, key string) (T, error) {
	var v T
	raw, err := s.Get(key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		def, _ := Default(key)
		var fallback T
		if err := json.Unmarshal(def, &fallback); err != nil {
			return fallback, fmt.Errorf("decoding %s: %w", key, err)
		}
		return fallback, nil
	}
	return v, nil
}

// Save encodes v and stores it under key.
func Save(s *Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(key, raw)
}
