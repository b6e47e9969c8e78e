package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yoshii001/Content-Generator/internal/config"
)

func slotBackends(t *testing.T) map[string]SlotStore {
	t.Helper()
	files, err := NewFileSlots(filepath.Join(t.TempDir(), "history"))
	if err != nil {
		t.Fatalf("file slots: %v", err)
	}
	db, err := NewSQLiteSlots(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("sqlite slots: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]SlotStore{
		"file":   files,
		"sqlite": db,
		"memory": NewMemorySlots(),
	}
}

func TestSlotStores_LoadSaveReplace(t *testing.T) {
	for name, s := range slotBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load("contentHistory"); !errors.Is(err, ErrSlotNotFound) {
				t.Fatalf("want ErrSlotNotFound, got %v", err)
			}
			if err := s.Save("contentHistory", []byte(`[1]`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := s.Save("contentHistory", []byte(`[1,2]`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := s.Save("other", []byte(`[]`)); err != nil {
				t.Fatalf("save other: %v", err)
			}
			got, err := s.Load("contentHistory")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if string(got) != `[1,2]` {
				t.Fatalf("got %s", got)
			}
		})
	}
}

func TestFileSlots_SanitizesKeysAndSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSlots(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("contentHistory:chat:42", []byte(`["x"]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "contentHistory_3Achat_3A42.json")); err != nil {
		t.Fatalf("expected sanitized file name: %v", err)
	}

	reopened, err := NewFileSlots(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Load("contentHistory:chat:42")
	if err != nil || string(got) != `["x"]` {
		t.Fatalf("reload: %q, %v", got, err)
	}
}

func TestSQLiteSlots_SurvivesReopen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := NewSQLiteSlots(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s2, err := NewSQLiteSlots(p)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Load("k")
	if err != nil || string(got) != "v" {
		t.Fatalf("reload: %q, %v", got, err)
	}
}

func TestMemorySlots_CopiesData(t *testing.T) {
	s := NewMemorySlots()
	data := []byte("abc")
	_ = s.Save("k", data)
	data[0] = 'z'
	got, _ := s.Load("k")
	if string(got) != "abc" {
		t.Fatalf("stored slot aliased caller buffer: %q", got)
	}
}

func TestOpenSlots(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []config.HistoryBackend{config.BackendFile, config.BackendSQLite, config.BackendMemory} {
		cfg := &config.Config{
			HistoryBackend: backend,
			HistoryDir:     filepath.Join(dir, "slots"),
			HistoryDBPath:  filepath.Join(dir, "history.db"),
		}
		s, closeFn, err := OpenSlots(cfg)
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		if s == nil || closeFn == nil {
			t.Fatalf("%s: nil store or close func", backend)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("%s close: %v", backend, err)
		}
	}
	if _, _, err := OpenSlots(&config.Config{HistoryBackend: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestJSONFile_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data", "allowlist.json")
	var missing []int
	found, err := ReadJSONFile(p, &missing)
	if err != nil || found {
		t.Fatalf("missing file: found=%v err=%v", found, err)
	}
	if err := WriteJSONFile(p, []int{1, 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got []int
	found, err = ReadJSONFile(p, &got)
	if err != nil || !found || len(got) != 2 {
		t.Fatalf("read back: %v %v %v", got, found, err)
	}
}

func TestFileSlots_DistinctKeysDoNotCollide(t *testing.T) {
	s, err := NewFileSlots(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keys := []string{"contentHistory:chat:5", "contentHistory_chat_5", "contentHistory_3Achat_3A5", "a/b", "a_2Fb"}
	for _, k := range keys {
		if err := s.Save(k, []byte(k)); err != nil {
			t.Fatalf("save %q: %v", k, err)
		}
	}
	for _, k := range keys {
		got, err := s.Load(k)
		if err != nil || string(got) != k {
			t.Fatalf("load %q = %q, %v", k, got, err)
		}
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"contentHistory":        "contentHistory",
		"contentHistory:chat:5": "contentHistory_3Achat_3A5",
		"contentHistory_chat_5": "contentHistory_5Fchat_5F5",
		"":                      "_",
		"../x":                  ".._2Fx",
	}
	for in, want := range cases {
		if got := sanitizeKey(in); got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
