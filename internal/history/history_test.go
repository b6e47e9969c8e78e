package history

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/yoshii001/Content-Generator/internal/storage"
)

type failingSlots struct {
	storage.SlotStore
	failSave bool
}

func (f *failingSlots) Save(key string, data []byte) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.SlotStore.Save(key, data)
}

func rec(title string, sec int64) Record {
	return NewRecord(title, "content of "+title, time.Unix(sec, 0))
}

func TestAppendThenLoadInFreshSession(t *testing.T) {
	slots := storage.NewMemorySlots()
	s := Open(slots, "")

	if _, err := s.Append(rec("first", 1)); err != nil {
		t.Fatalf("append1: %v", err)
	}
	got, err := s.Append(rec("second", 2))
	if err != nil {
		t.Fatalf("append2: %v", err)
	}
	if len(got) != 2 || got[0].Title != "second" || got[1].Title != "first" {
		t.Fatalf("not newest-first: %+v", got)
	}

	fresh := Open(slots, DefaultSlot)
	loaded := fresh.Records()
	if !reflect.DeepEqual(loaded, got) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, got)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	slots := storage.NewMemorySlots()
	s := Open(slots, "")
	_, _ = s.Append(rec("a", 1))
	first := s.Load()
	second := s.Load()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("load not idempotent: %+v vs %+v", first, second)
	}
}

func TestLoadTreatsAbsentAndGarbageAsEmpty(t *testing.T) {
	slots := storage.NewMemorySlots()
	if got := Open(slots, "").Records(); len(got) != 0 {
		t.Fatalf("absent slot: %+v", got)
	}

	_ = slots.Save(DefaultSlot, []byte("{not json"))
	if got := Open(slots, "").Records(); len(got) != 0 {
		t.Fatalf("garbage slot: %+v", got)
	}

	_ = slots.Save(DefaultSlot, []byte("null"))
	got := Open(slots, "").Records()
	if got == nil || len(got) != 0 {
		t.Fatalf("null slot: %#v", got)
	}
}

func TestLoadAcceptsBrowserTimestamps(t *testing.T) {
	slots := storage.NewMemorySlots()
	_ = slots.Save(DefaultSlot, []byte(`[{"title":"Write a haiku","content":"old pond...\n","date":"2024-05-01T10:20:30.123Z"}]`))
	got := Open(slots, "").Records()
	if len(got) != 1 || got[0].Title != "Write a haiku" {
		t.Fatalf("unexpected: %+v", got)
	}
	want := time.Date(2024, 5, 1, 10, 20, 30, 123_000_000, time.UTC)
	if !got[0].Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got[0].Date, want)
	}
}

func TestDeleteAtMiddle(t *testing.T) {
	slots := storage.NewMemorySlots()
	s := Open(slots, "")
	_, _ = s.Append(rec("c", 1))
	_, _ = s.Append(rec("b", 2))
	before, _ := s.Append(rec("a", 3))

	got, err := s.DeleteAt(1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := Log{before[0], before[2]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if reloaded := Open(slots, "").Records(); !reflect.DeepEqual(reloaded, want) {
		t.Fatalf("durable copy diverged: %+v", reloaded)
	}
}

func TestDeleteAtEveryIndex(t *testing.T) {
	for i := 0; i < 4; i++ {
		s := Open(storage.NewMemorySlots(), "")
		for j := 0; j < 4; j++ {
			_, _ = s.Append(rec(string(rune('a'+j)), int64(j)))
		}
		before := s.Records()
		got, err := s.DeleteAt(i)
		if err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
		if len(got) != len(before)-1 {
			t.Fatalf("delete %d: len %d", i, len(got))
		}
		want := append(append(Log{}, before[:i]...), before[i+1:]...)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("delete %d: got %+v want %+v", i, got, want)
		}
	}
}

func TestDeleteAtOutOfRangeLeavesLogUnchanged(t *testing.T) {
	slots := storage.NewMemorySlots()
	s := Open(slots, "")
	_, _ = s.Append(rec("a", 1))
	storedBefore, _ := slots.Load(DefaultSlot)

	for _, idx := range []int{-1, 1, 99} {
		got, err := s.DeleteAt(idx)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: want ErrIndexOutOfRange, got %v", idx, err)
		}
		if len(got) != 1 {
			t.Fatalf("index %d: log changed: %+v", idx, got)
		}
	}
	storedAfter, _ := slots.Load(DefaultSlot)
	if string(storedBefore) != string(storedAfter) {
		t.Fatalf("stored log changed: %s -> %s", storedBefore, storedAfter)
	}
}

func TestFailedWriteKeepsMemoryAndDiskEqual(t *testing.T) {
	slots := &failingSlots{SlotStore: storage.NewMemorySlots()}
	s := Open(slots, "")
	_, _ = s.Append(rec("kept", 1))

	slots.failSave = true
	if _, err := s.Append(rec("lost", 2)); err == nil {
		t.Fatalf("expected append error")
	}
	if _, err := s.DeleteAt(0); err == nil {
		t.Fatalf("expected delete error")
	}
	got := s.Records()
	if len(got) != 1 || got[0].Title != "kept" {
		t.Fatalf("memory diverged from disk: %+v", got)
	}

	slots.failSave = false
	if reloaded := Open(slots, "").Records(); !reflect.DeepEqual(reloaded, got) {
		t.Fatalf("disk diverged: %+v", reloaded)
	}
}

func TestRecordsReturnsCopy(t *testing.T) {
	s := Open(storage.NewMemorySlots(), "")
	_, _ = s.Append(rec("a", 1))
	got := s.Records()
	got[0].Title = "mutated"
	if s.Records()[0].Title != "a" {
		t.Fatalf("internal state mutated via returned slice")
	}
}

func TestGet(t *testing.T) {
	s := Open(storage.NewMemorySlots(), "")
	_, _ = s.Append(rec("a", 1))
	r, err := s.Get(0)
	if err != nil || r.Title != "a" {
		t.Fatalf("get: %+v %v", r, err)
	}
	if _, err := s.Get(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}
}

func TestExportIsContentOnly(t *testing.T) {
	r := NewRecord("Write a haiku", "old pond...\nfrog — splash", time.Now())
	if got := string(Export(r)); got != r.Content {
		t.Fatalf("export = %q", got)
	}
	if ExportFilename != "generated_content.txt" || ExportContentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected export metadata")
	}
}

func TestNewRecordUsesUTCMillis(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 678_901_234, time.FixedZone("X", 3600))
	r := NewRecord("p", "c", now)
	if r.Date.Location() != time.UTC || r.Date.Nanosecond() != 678_000_000 {
		t.Fatalf("date = %v", r.Date)
	}
}
