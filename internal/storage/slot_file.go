package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSlots stores each slot as <dir>/<key>.json.
type FileSlots struct {
	dir string
	mu  sync.Mutex
}

func NewFileSlots(dir string) (*FileSlots, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	return &FileSlots{dir: dir}, nil
}

func (s *FileSlots) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return data, nil
}

func (s *FileSlots) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFileAtomic(s.path(key), data); err != nil {
		return fmt.Errorf("save slot %q: %w", key, err)
	}
	return nil
}

func (s *FileSlots) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey keeps [A-Za-z0-9.-] and writes every other byte as _XX (hex).
// Since '_' itself is escaped, distinct keys never share a file.
func sanitizeKey(key string) string {
	if key == "" {
		return "_"
	}
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02X", c)
		}
	}
	return b.String()
}
