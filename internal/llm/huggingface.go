package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
)

// ErrMissingCredentials is returned when a provider is called without an API key.
var ErrMissingCredentials = errors.New("missing provider credentials")

// HuggingFaceClient calls the hosted Inference API for a text-generation model.
type HuggingFaceClient struct {
	apiKey   string
	modelURL string
	http     *http.Client
}

type hfParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfResult struct {
	GeneratedText string `json:"generated_text"`
}

func NewHuggingFace(apiKey, modelURL string, httpClient *http.Client) *HuggingFaceClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HuggingFaceClient{apiKey: apiKey, modelURL: modelURL, http: httpClient}
}

func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string, params Params) (Response, error) {
	if c.apiKey == "" {
		return Response{}, fmt.Errorf("huggingface: %w", ErrMissingCredentials)
	}

	body, err := json.Marshal(hfRequest{
		Inputs:     prompt,
		Parameters: hfParameters{MaxLength: params.MaxLength, Temperature: params.Temperature},
	})
	if err != nil {
		return Response{}, fmt.Errorf("huggingface: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("huggingface: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("huggingface: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Response{}, fmt.Errorf("huggingface: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, fmt.Errorf("huggingface: status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var results []hfResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return Response{}, fmt.Errorf("huggingface: decode response: %w", err)
	}
	if len(results) == 0 {
		return Response{}, fmt.Errorf("huggingface: empty response")
	}

	return Response{Content: results[0].GeneratedText, Model: c.modelName()}, nil
}

// modelName derives "owner/model" from the model URL.
func (c *HuggingFaceClient) modelName() string {
	trimmed := strings.TrimSuffix(c.modelURL, "/")
	if i := strings.Index(trimmed, "/models/"); i >= 0 {
		return trimmed[i+len("/models/"):]
	}
	return path.Base(trimmed)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
