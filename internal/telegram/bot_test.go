package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yoshii001/Content-Generator/internal/auth"
	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/llm"
	"github.com/yoshii001/Content-Generator/internal/session"
	"github.com/yoshii001/Content-Generator/internal/storage"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	docs []tgbotapi.DocumentConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.sent = append(f.sent, m.Text)
	case tgbotapi.DocumentConfig:
		f.docs = append(f.docs, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeGen struct {
	content string
	err     error
	prompts []string
}

func (f *fakeGen) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.content, f.err
}

func newTestBot(t *testing.T, gen session.Generator, allowed ...int64) (*Bot, *fakeSender, storage.SlotStore) {
	t.Helper()
	svc, err := auth.NewWithRepo(nil, allowed)
	if err != nil {
		t.Fatalf("auth init: %v", err)
	}
	fs := &fakeSender{}
	slots := storage.NewMemorySlots()
	return newBot(fs, svc, gen, slots, Options{}), fs, slots
}

func textMsg(userID, chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{From: &tgbotapi.User{ID: userID}, Chat: &tgbotapi.Chat{ID: chatID}, Text: text}
}

func commandMsg(userID, chatID int64, text string) *tgbotapi.Message {
	m := textMsg(userID, chatID, text)
	cmdLen := len(strings.Fields(text)[0])
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	return m
}

func TestUnauthorizedUserIsRejected(t *testing.T) {
	gen := &fakeGen{content: "x"}
	b, fs, _ := newTestBot(t, gen, 1)
	b.handleIncomingMessage(context.Background(), textMsg(2, 2, "hello"))
	if len(gen.prompts) != 0 {
		t.Fatalf("generator called for unauthorized user")
	}
	if !strings.Contains(fs.last(), "not allowed") {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
}

func TestGeneratePersistsPerChat(t *testing.T) {
	gen := &fakeGen{content: "old pond...\n"}
	b, fs, slots := newTestBot(t, gen)
	b.handleIncomingMessage(context.Background(), textMsg(7, 100, "Write a haiku"))

	out := fs.last()
	if !strings.Contains(out, session.MsgGenerated) || !strings.Contains(out, "old pond...") {
		t.Fatalf("unexpected reply: %q", out)
	}

	// a fresh store over the same slot sees the record
	reloaded := history.Open(slots, b.slotKey(100))
	if reloaded.Len() != 1 || reloaded.Records()[0].Title != "Write a haiku" {
		t.Fatalf("history not persisted: %+v", reloaded.Records())
	}
	if other := history.Open(slots, b.slotKey(200)); other.Len() != 0 {
		t.Fatalf("history leaked to another chat")
	}
}

func TestGenerateFailureSendsGenericMessage(t *testing.T) {
	gen := &fakeGen{err: errors.New("relay returned status 500: secret detail")}
	b, fs, _ := newTestBot(t, gen)
	b.handleIncomingMessage(context.Background(), textMsg(7, 100, "hi"))
	if fs.last() != session.MsgGenerationFailed {
		t.Fatalf("reply = %q", fs.last())
	}
}

func TestEmptyPrompt(t *testing.T) {
	gen := &fakeGen{content: "x"}
	b, fs, _ := newTestBot(t, gen)
	b.handleIncomingMessage(context.Background(), textMsg(7, 100, "   "))
	if len(gen.prompts) != 0 || fs.last() != session.MsgEmptyPrompt {
		t.Fatalf("prompts=%v reply=%q", gen.prompts, fs.last())
	}
}

func TestHistoryDeleteExport(t *testing.T) {
	gen := &fakeGen{content: "body"}
	b, fs, _ := newTestBot(t, gen)
	ctx := context.Background()
	for _, p := range []string{"first", "second"} {
		b.handleIncomingMessage(ctx, textMsg(7, 100, p))
	}

	b.handleIncomingMessage(ctx, commandMsg(7, 100, "/history"))
	list := fs.last()
	if !strings.HasPrefix(list, "1. second") || !strings.Contains(list, "2. first") {
		t.Fatalf("history listing = %q", list)
	}

	b.handleIncomingMessage(ctx, commandMsg(7, 100, "/export 2"))
	if len(fs.docs) != 1 {
		t.Fatalf("expected one document, got %d", len(fs.docs))
	}
	fb, ok := fs.docs[0].File.(tgbotapi.FileBytes)
	if !ok || fb.Name != history.ExportFilename || string(fb.Bytes) != "body" {
		t.Fatalf("unexpected document: %+v", fs.docs[0].File)
	}

	b.handleIncomingMessage(ctx, commandMsg(7, 100, "/delete 1"))
	if fs.last() != session.MsgHistoryDeleted {
		t.Fatalf("delete reply = %q", fs.last())
	}
	if recs := b.sessionFor(100).store.Records(); len(recs) != 1 || recs[0].Title != "first" {
		t.Fatalf("after delete: %+v", recs)
	}

	b.handleIncomingMessage(ctx, commandMsg(7, 100, "/delete 9"))
	if !strings.Contains(fs.last(), "No entry #9") {
		t.Fatalf("out of range reply = %q", fs.last())
	}
	b.handleIncomingMessage(ctx, commandMsg(7, 100, "/delete abc"))
	if !strings.HasPrefix(fs.last(), "Usage") {
		t.Fatalf("bad arg reply = %q", fs.last())
	}
}

func TestTemplatesAndHelp(t *testing.T) {
	b, fs, _ := newTestBot(t, &fakeGen{})
	b.handleIncomingMessage(context.Background(), commandMsg(7, 100, "/templates"))
	if !strings.Contains(fs.last(), "Blog Post") {
		t.Fatalf("templates reply = %q", fs.last())
	}
	b.handleIncomingMessage(context.Background(), commandMsg(7, 100, "/start"))
	if !strings.Contains(fs.last(), "/history") {
		t.Fatalf("help reply = %q", fs.last())
	}
}

func TestParseEntry(t *testing.T) {
	if idx, err := parseEntry(" 3 "); err != nil || idx != 2 {
		t.Fatalf("parseEntry(3) = %d, %v", idx, err)
	}
	for _, bad := range []string{"", "0", "-1", "x"} {
		if _, err := parseEntry(bad); err == nil {
			t.Fatalf("parseEntry(%q) should fail", bad)
		}
	}
}
