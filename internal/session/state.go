package session

import "strings"

// User-facing notification texts. Transport details never reach these.
const (
	MsgEmptyPrompt       = "Please enter a prompt"
	MsgGenerated         = "Content generated successfully"
	MsgGenerationFailed  = "Failed to generate content"
	MsgSaveFailed        = "Failed to save content"
	MsgBusy              = "Generation already in progress"
	MsgHistoryDeleted    = "History entry deleted"
	MsgHistoryDeleteFail = "Failed to delete history entry"
)

type Notification struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
	IsError bool   `json:"is_error"`
}

// State is the whole ephemeral state of one session. It is a value: every
// transition goes through Apply and produces a new State.
type State struct {
	PromptDraft  string       `json:"prompt_draft"`
	LastResult   string       `json:"last_result"`
	HasResult    bool         `json:"has_result"`
	WordCount    int          `json:"word_count"`
	IsGenerating bool         `json:"is_generating"`
	LastError    string       `json:"last_error,omitempty"`
	Notification Notification `json:"notification"`
}

type Action interface{ isAction() }

type (
	DraftChanged          struct{ Text string }
	PromptRejected        struct{}
	Busy                  struct{}
	GenerationStarted     struct{ Prompt string }
	GenerationSucceeded   struct{ Content string }
	GenerationFailed      struct{}
	SaveFailed            struct{ Content string }
	EntryDeleted          struct{}
	DeleteFailed          struct{}
	NotificationDismissed struct{}
)

func (DraftChanged) isAction()          {}
func (PromptRejected) isAction()        {}
func (Busy) isAction()                  {}
func (GenerationStarted) isAction()     {}
func (GenerationSucceeded) isAction()   {}
func (GenerationFailed) isAction()      {}
func (SaveFailed) isAction()            {}
func (EntryDeleted) isAction()          {}
func (DeleteFailed) isAction()          {}
func (NotificationDismissed) isAction() {}

// Apply is the only way State changes.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case DraftChanged:
		s.PromptDraft = a.Text
	case PromptRejected:
		s.Notification = Notification{Message: MsgEmptyPrompt, Visible: true, IsError: true}
	case Busy:
		s.Notification = Notification{Message: MsgBusy, Visible: true, IsError: true}
	case GenerationStarted:
		s.PromptDraft = a.Prompt
		s.IsGenerating = true
		s.LastError = ""
	case GenerationSucceeded:
		s.IsGenerating = false
		s.LastResult = a.Content
		s.HasResult = true
		s.WordCount = WordCount(a.Content)
		s.PromptDraft = ""
		s.LastError = ""
		s.Notification = Notification{Message: MsgGenerated, Visible: true}
	case GenerationFailed:
		s.IsGenerating = false
		s.LastError = MsgGenerationFailed
		s.Notification = Notification{Message: MsgGenerationFailed, Visible: true, IsError: true}
	case SaveFailed:
		// The text is shown but the draft stays so the user can retry.
		s.IsGenerating = false
		s.LastResult = a.Content
		s.HasResult = true
		s.WordCount = WordCount(a.Content)
		s.LastError = MsgSaveFailed
		s.Notification = Notification{Message: MsgSaveFailed, Visible: true, IsError: true}
	case EntryDeleted:
		s.Notification = Notification{Message: MsgHistoryDeleted, Visible: true}
	case DeleteFailed:
		s.Notification = Notification{Message: MsgHistoryDeleteFail, Visible: true, IsError: true}
	case NotificationDismissed:
		s.Notification.Visible = false
	}
	return s
}

// WordCount counts runs of non-whitespace.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
