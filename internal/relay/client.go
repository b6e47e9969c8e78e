package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/yoshii001/Content-Generator/internal/llm"
)

// ErrMalformedResponse is returned when a 2xx body has no content field.
var ErrMalformedResponse = errors.New("malformed relay response")

// StatusError reports a non-2xx relay answer.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relay returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
}

// Client calls a relay over HTTP. It makes one request per call, no retries.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, http: httpClient}
}

func (c *Client) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	maxLength, temperature := params.MaxLength, params.Temperature
	body, err := json.Marshal(GenerateRequest{Prompt: prompt, MaxLength: &maxLength, Temperature: &temperature})
	if err != nil {
		return "", fmt.Errorf("encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e ErrorResponse
		_ = json.Unmarshal(raw, &e)
		return "", &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	var out struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Content == nil {
		return "", fmt.Errorf("%w: missing content", ErrMalformedResponse)
	}
	return *out.Content, nil
}
