// Package telegram exposes the content generator as a Telegram bot. Every
// chat gets its own session controller and its own persisted history slot.
package telegram

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yoshii001/Content-Generator/internal/auth"
	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/session"
	"github.com/yoshii001/Content-Generator/internal/storage"
)

// chatSession pairs the controller of one chat with its history.
type chatSession struct {
	ctrl  *session.Controller
	store *history.Store
}

type Bot struct {
	s        sender
	api      *tgbotapi.BotAPI
	authSvc  *auth.Service
	gen      session.Generator
	slots    storage.SlotStore
	slotBase string
	timeout  time.Duration

	mu       sync.Mutex
	sessions map[int64]*chatSession
}

type Options struct {
	// SlotBase prefixes the per-chat history slot, e.g. "contentHistory".
	SlotBase string
	Timeout  time.Duration
}

func New(botToken string, authSvc *auth.Service, gen session.Generator, slots storage.SlotStore, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := newBot(botAPISender{api: api}, authSvc, gen, slots, opts)
	b.api = api
	return b, nil
}

func newBot(s sender, authSvc *auth.Service, gen session.Generator, slots storage.SlotStore, opts Options) *Bot {
	if opts.SlotBase == "" {
		opts.SlotBase = history.DefaultSlot
	}
	return &Bot{
		s:        s,
		authSvc:  authSvc,
		gen:      gen,
		slots:    slots,
		slotBase: opts.SlotBase,
		timeout:  opts.Timeout,
		sessions: make(map[int64]*chatSession),
	}
}

// Start polls updates until ctx is cancelled. Each message is handled on its
// own goroutine so a slow generation does not block other chats.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Authorized on account %s", b.api.Self.UserName)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer wg.Done()
				b.handleIncomingMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// slotKey names the history slot of a chat.
func (b *Bot) slotKey(chatID int64) string {
	return fmt.Sprintf("%s:chat:%d", b.slotBase, chatID)
}

func (b *Bot) sessionFor(chatID int64) *chatSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cs, ok := b.sessions[chatID]; ok {
		return cs
	}
	store := history.Open(b.slots, b.slotKey(chatID))
	cs := &chatSession{
		ctrl:  session.NewController(b.gen, store, session.WithTimeout(b.timeout)),
		store: store,
	}
	b.sessions[chatID] = cs
	return cs
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	if !b.authSvc.IsAllowed(msg.From.ID) {
		log.Printf("Unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)
		b.sendMessage(msg.Chat.ID, "Sorry, you are not allowed to use this bot.")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	log.Printf("Incoming prompt from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)
	b.handleGenerate(ctx, msg.Chat.ID, msg.Text)
}

func (b *Bot) handleGenerate(ctx context.Context, chatID int64, prompt string) {
	cs := b.sessionFor(chatID)
	rec, err := cs.ctrl.Submit(ctx, prompt)
	st := cs.ctrl.State()
	if err != nil {
		b.sendMessage(chatID, st.Notification.Message)
		return
	}

	out := fmt.Sprintf("%s\n\n%s\n\n[%d words, saved as #1]", st.Notification.Message, rec.Content, st.WordCount)
	b.sendMessage(chatID, out)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
