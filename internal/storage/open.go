package storage

import (
	"fmt"

	"github.com/yoshii001/Content-Generator/internal/config"
)

// OpenSlots builds the history backend named in cfg. The returned close func
// is never nil.
func OpenSlots(cfg *config.Config) (SlotStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.HistoryBackend {
	case config.BackendFile:
		s, err := NewFileSlots(cfg.HistoryDir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case config.BackendSQLite:
		s, err := NewSQLiteSlots(cfg.HistoryDBPath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.BackendMemory:
		return NewMemorySlots(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown history backend: %s", cfg.HistoryBackend)
	}
}
