package llm

import "context"

// Params are the generation knobs forwarded to the inference provider.
type Params struct {
	MaxLength   int
	Temperature float64
}

// DefaultParams are the fixed parameters every generation uses.
var DefaultParams = Params{MaxLength: 100, Temperature: 0.7}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, prompt string, params Params) (Response, error)
}
