// Package relay forwards prompts to the inference provider and reshapes its
// answer. It holds no state beyond the provider credentials.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/yoshii001/Content-Generator/internal/llm"
	"github.com/yoshii001/Content-Generator/internal/storage"
)

const (
	GeneratePath = "/generate-content"
	StatusPath   = "/api/status"

	// ErrorMessage is the only failure text clients ever see.
	ErrorMessage = "Content generation failed"

	maxRequestBody = 1 << 20
)

// GenerateRequest is the relay request body. Omitted parameters fall back to
// llm.DefaultParams.
type GenerateRequest struct {
	Prompt      string   `json:"prompt"`
	MaxLength   *int     `json:"max_length,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type GenerateResponse struct {
	Content string `json:"content"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Options struct {
	Addr     string
	Provider string
	Model    string
	Recorder storage.Recorder
}

type Server struct {
	client    llm.Client
	opts      Options
	server    *http.Server
	startTime time.Time
}

func NewServer(client llm.Client, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":5000"
	}
	s := &Server{client: client, opts: opts, startTime: time.Now()}
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the relay routes wrapped in permissive CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(GeneratePath, s.handleGenerate)
	mux.HandleFunc(StatusPath, s.handleStatus)
	return withCORS(mux)
}

// Start blocks serving until Stop is called. Stop may run before Start, in
// which case Start returns nil immediately.
func (s *Server) Start() error {
	log.Printf("🌐 Relay is running on %s (provider=%s, model=%s)", s.opts.Addr, s.opts.Provider, s.opts.Model)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON request"})
		return
	}

	params := llm.DefaultParams
	if req.MaxLength != nil {
		params.MaxLength = *req.MaxLength
	}
	if req.Temperature != nil {
		params.Temperature = *req.Temperature
	}

	start := time.Now()
	resp, err := s.client.Generate(r.Context(), req.Prompt, params)
	s.record(req.Prompt, resp, err, time.Since(start))
	if err != nil {
		log.Printf("❌ Error response: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorMessage})
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Content: resp.Content})
}

func (s *Server) record(prompt string, resp llm.Response, err error, latency time.Duration) {
	if s.opts.Recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp: time.Now().UTC(),
		Provider:  s.opts.Provider,
		Model:     s.opts.Model,
		PromptLen: len(prompt),
		OutputLen: len(resp.Content),
		Success:   err == nil,
		LatencyMS: latency.Milliseconds(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if recErr := s.opts.Recorder.AppendInteraction(ev); recErr != nil {
		log.Printf("⚠️ failed to record usage event: %v", recErr)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"provider": s.opts.Provider,
		"model":    s.opts.Model,
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ failed to write response: %v", err)
	}
}
