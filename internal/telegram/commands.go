package telegram

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yoshii001/Content-Generator/internal/format"
	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/session"
)

const helpText = `Send any text and I will generate content for it.

/history - list saved generations
/delete N - delete entry N
/export N - download entry N as a text file
/templates - show content templates`

// telegram caps messages at 4096 characters
const maxMessageLen = 4000

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		b.sendMessage(chatID, helpText)
	case "templates":
		b.sendMessage(chatID, templatesText())
	case "history":
		b.sendHistory(chatID)
	case "delete":
		b.handleDelete(chatID, msg.CommandArguments())
	case "export":
		b.handleExport(chatID, msg.CommandArguments())
	default:
		b.sendMessage(chatID, "Unknown command. "+helpText)
	}
}

func templatesText() string {
	var sb strings.Builder
	sb.WriteString("Templates:\n")
	for _, t := range session.Templates() {
		fmt.Fprintf(&sb, "• %s: %s\n", t.Name, t.Description)
	}
	return sb.String()
}

func (b *Bot) sendHistory(chatID int64) {
	records := b.sessionFor(chatID).ctrl.History()
	if len(records) == 0 {
		b.sendMessage(chatID, "History is empty.")
		return
	}
	var sb strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&sb, "%d. %s (%s)\n   %s\n",
			i+1,
			format.Preview(rec.Title, 60),
			rec.Date.UTC().Format("2006-01-02 15:04"),
			format.Preview(rec.Content, 80),
		)
	}
	text := sb.String()
	if len([]rune(text)) > maxMessageLen {
		text = string([]rune(text)[:maxMessageLen]) + "\n..."
	}
	b.sendMessage(chatID, text)
}

// parseEntry maps a 1-based entry number to a 0-based log index.
func parseEntry(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected an entry number, got %q", arg)
	}
	return n - 1, nil
}

func (b *Bot) handleDelete(chatID int64, arg string) {
	idx, err := parseEntry(arg)
	if err != nil {
		b.sendMessage(chatID, "Usage: /delete N")
		return
	}
	cs := b.sessionFor(chatID)
	if _, err := cs.ctrl.Delete(idx); err != nil {
		if errors.Is(err, history.ErrIndexOutOfRange) {
			b.sendMessage(chatID, fmt.Sprintf("No entry #%d.", idx+1))
			return
		}
		log.Printf("failed to delete history entry for chat %d: %v", chatID, err)
	}
	b.sendMessage(chatID, cs.ctrl.State().Notification.Message)
}

func (b *Bot) handleExport(chatID int64, arg string) {
	idx, err := parseEntry(arg)
	if err != nil {
		b.sendMessage(chatID, "Usage: /export N")
		return
	}
	rec, err := b.sessionFor(chatID).store.Get(idx)
	if err != nil {
		b.sendMessage(chatID, fmt.Sprintf("No entry #%d.", idx+1))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: history.ExportFilename, Bytes: history.Export(rec)})
	doc.Caption = format.Preview(rec.Title, 200)
	if _, err := b.s.Send(doc); err != nil {
		log.Printf("failed to send document: %v", err)
		b.sendMessage(chatID, "Failed to export entry.")
	}
}
