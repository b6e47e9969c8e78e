// Package history keeps the ordered, persisted log of past generations.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yoshii001/Content-Generator/internal/storage"
)

const (
	// DefaultSlot is the storage slot holding the serialized log.
	DefaultSlot = "contentHistory"

	ExportFilename    = "generated_content.txt"
	ExportContentType = "text/plain; charset=utf-8"
)

// ErrIndexOutOfRange is returned by DeleteAt for an index outside [0, len).
var ErrIndexOutOfRange = errors.New("history index out of range")

// Record is one successful generation. Records are never updated in place.
type Record struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// NewRecord stamps a record with the current UTC time at millisecond precision.
func NewRecord(prompt, content string, now time.Time) Record {
	return Record{Title: prompt, Content: content, Date: now.UTC().Truncate(time.Millisecond)}
}

// Log is newest-first.
type Log []Record

func (l Log) clone() Log {
	out := make(Log, len(l))
	copy(out, l)
	return out
}

// Store mirrors one storage slot in memory. Every mutation writes the whole
// resulting log to the slot before it is committed in memory, so a failed
// write leaves both copies unchanged.
type Store struct {
	mu      sync.Mutex
	slots   storage.SlotStore
	key     string
	records Log
}

func NewStore(slots storage.SlotStore, key string) *Store {
	if key == "" {
		key = DefaultSlot
	}
	return &Store{slots: slots, key: key, records: Log{}}
}

// Open creates a store and loads its durable copy.
func Open(slots storage.SlotStore, key string) *Store {
	s := NewStore(slots, key)
	s.Load()
	return s
}

// Load replaces the in-memory log with the durable copy. A missing or
// unparseable slot yields an empty log; Load never fails.
func (s *Store) Load() Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.slots.Load(s.key)
	switch {
	case errors.Is(err, storage.ErrSlotNotFound):
		s.records = Log{}
	case err != nil:
		log.Printf("⚠️ history: failed to read slot %q, starting empty: %v", s.key, err)
		s.records = Log{}
	default:
		var records Log
		if err := json.Unmarshal(data, &records); err != nil || records == nil {
			if err != nil {
				log.Printf("⚠️ history: slot %q is not a valid log, starting empty: %v", s.key, err)
			}
			records = Log{}
		}
		s.records = records
	}
	return s.records.clone()
}

// Records returns a copy of the current log.
func (s *Store) Records() Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.clone()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Get returns the record at index in display order.
func (s *Store) Get(index int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.records) {
		return Record{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(s.records))
	}
	return s.records[index], nil
}

// Append inserts rec at position 0.
func (s *Store) Append(rec Record) (Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(Log, 0, len(s.records)+1)
	next = append(next, rec)
	next = append(next, s.records...)
	if err := s.saveUnlocked(next); err != nil {
		return s.records.clone(), err
	}
	s.records = next
	return next.clone(), nil
}

// DeleteAt removes the record at index.
func (s *Store) DeleteAt(index int) (Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.records) {
		return s.records.clone(), fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(s.records))
	}
	next := make(Log, 0, len(s.records)-1)
	next = append(next, s.records[:index]...)
	next = append(next, s.records[index+1:]...)
	if err := s.saveUnlocked(next); err != nil {
		return s.records.clone(), err
	}
	s.records = next
	return next.clone(), nil
}

func (s *Store) saveUnlocked(records Log) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.slots.Save(s.key, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Export returns the record's content as UTF-8 text for download.
func Export(rec Record) []byte {
	return []byte(rec.Content)
}
