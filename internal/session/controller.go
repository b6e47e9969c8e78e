// Package session turns prompts into history records, one relay call at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/llm"
)

var (
	ErrEmptyPrompt = errors.New("empty prompt")
	ErrBusy        = errors.New("generation already in progress")
)

// GenerationError wraps any relay failure. Its message is the generic
// user-facing text; the cause is only reachable through Unwrap.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return MsgGenerationFailed }
func (e *GenerationError) Unwrap() error { return e.Err }

// Generator is the relay boundary as seen by the controller.
type Generator interface {
	Generate(ctx context.Context, prompt string, params llm.Params) (string, error)
}

// HistoryLog is the part of history.Store the controller mutates.
type HistoryLog interface {
	Append(rec history.Record) (history.Log, error)
	DeleteAt(index int) (history.Log, error)
	Records() history.Log
}

type Option func(*Controller)

// WithTimeout bounds every relay call. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

type Controller struct {
	mu      sync.Mutex
	state   State
	gen     Generator
	history HistoryLog
	timeout time.Duration
	now     func() time.Time
}

func NewController(gen Generator, h HistoryLog, opts ...Option) *Controller {
	c := &Controller{gen: gen, history: h, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) History() history.Log {
	return c.history.Records()
}

func (c *Controller) SetDraft(text string) State {
	return c.dispatch(DraftChanged{Text: text})
}

func (c *Controller) DismissNotification() State {
	return c.dispatch(NotificationDismissed{})
}

func (c *Controller) dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Apply(c.state, a)
	return c.state
}

// Submit validates draft, makes exactly one relay call and appends the result
// to the history log. A second Submit while one is outstanding is rejected
// with ErrBusy and makes no call.
func (c *Controller) Submit(ctx context.Context, draft string) (history.Record, error) {
	c.mu.Lock()
	if strings.TrimSpace(draft) == "" {
		c.state = Apply(c.state, PromptRejected{})
		c.mu.Unlock()
		return history.Record{}, ErrEmptyPrompt
	}
	if c.state.IsGenerating {
		c.state = Apply(c.state, Busy{})
		c.mu.Unlock()
		return history.Record{}, ErrBusy
	}
	c.state = Apply(c.state, GenerationStarted{Prompt: draft})
	c.mu.Unlock()

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	content, err := c.gen.Generate(callCtx, draft, llm.DefaultParams)
	if err != nil {
		log.Printf("❌ generation failed: %v", err)
		c.dispatch(GenerationFailed{})
		return history.Record{}, &GenerationError{Err: err}
	}

	rec := history.NewRecord(draft, content, c.now())
	if _, err := c.history.Append(rec); err != nil {
		log.Printf("❌ failed to save generated content: %v", err)
		c.dispatch(SaveFailed{Content: content})
		return history.Record{}, fmt.Errorf("save generated content: %w", err)
	}

	c.dispatch(GenerationSucceeded{Content: content})
	return rec, nil
}

// Delete removes the history entry at index (display order).
func (c *Controller) Delete(index int) (history.Log, error) {
	l, err := c.history.DeleteAt(index)
	if err != nil {
		if !errors.Is(err, history.ErrIndexOutOfRange) {
			c.dispatch(DeleteFailed{})
		}
		return l, err
	}
	c.dispatch(EntryDeleted{})
	return l, nil
}
