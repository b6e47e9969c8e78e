// Package mcptools exposes content generation and the history log as MCP tools.
package mcptools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yoshii001/Content-Generator/internal/format"
	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/session"
)

type GenerateParams struct {
	Prompt string `json:"prompt" mcp:"prompt to generate content for"`
}

type ListHistoryParams struct {
	Format string `json:"format,omitempty" mcp:"output format: plain (default), json or jsonl"`
}

type IndexParams struct {
	Index int `json:"index" mcp:"zero-based history index, newest entry is 0"`
}

// ContentServer serves the tools over one controller and its history store.
type ContentServer struct {
	ctrl  *session.Controller
	store *history.Store
}

func NewContentServer(ctrl *session.Controller, store *history.Store) *ContentServer {
	return &ContentServer{ctrl: ctrl, store: store}
}

// NewServer builds the MCP server with every tool registered.
func NewServer(cs *ContentServer, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "content-generator-mcp",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_content",
		Description: "Generates text for a prompt and saves it to the history log",
	}, cs.Generate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_history",
		Description: "Lists saved generations, newest first",
	}, cs.ListHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_history",
		Description: "Deletes the history entry at the given index",
	}, cs.DeleteHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_history",
		Description: "Returns the text of the history entry at the given index",
	}, cs.ExportHistory)

	return server
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func (s *ContentServer) Generate(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[GenerateParams]) (*mcp.CallToolResultFor[any], error) {
	log.Printf("📝 MCP Server: generate_content (%d chars)", len(params.Arguments.Prompt))

	rec, err := s.ctrl.Submit(ctx, params.Arguments.Prompt)
	if err != nil {
		return errorResult("❌ " + s.ctrl.State().Notification.Message), nil
	}
	st := s.ctrl.State()
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: rec.Content}},
		Meta: map[string]interface{}{
			"title":      rec.Title,
			"date":       rec.Date,
			"word_count": st.WordCount,
		},
	}, nil
}

func (s *ContentServer) ListHistory(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[ListHistoryParams]) (*mcp.CallToolResultFor[any], error) {
	f := params.Arguments.Format
	if f == "" || f == "table" {
		f = "plain"
	}
	records := s.ctrl.History()
	var buf bytes.Buffer
	if err := format.WriteHistory(&buf, records, f, format.Options{Header: true}); err != nil {
		return errorResult(fmt.Sprintf("❌ %v", err)), nil
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: buf.String()}},
		Meta:    map[string]interface{}{"count": len(records)},
	}, nil
}

func (s *ContentServer) DeleteHistory(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[IndexParams]) (*mcp.CallToolResultFor[any], error) {
	idx := params.Arguments.Index
	records, err := s.ctrl.Delete(idx)
	if err != nil {
		if errors.Is(err, history.ErrIndexOutOfRange) {
			return errorResult(fmt.Sprintf("❌ no history entry at index %d", idx)), nil
		}
		return errorResult("❌ " + s.ctrl.State().Notification.Message), nil
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: "✅ " + session.MsgHistoryDeleted}},
		Meta:    map[string]interface{}{"count": len(records)},
	}, nil
}

func (s *ContentServer) ExportHistory(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[IndexParams]) (*mcp.CallToolResultFor[any], error) {
	idx := params.Arguments.Index
	rec, err := s.store.Get(idx)
	if err != nil {
		return errorResult(fmt.Sprintf("❌ no history entry at index %d", idx)), nil
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(history.Export(rec))}},
		Meta: map[string]interface{}{
			"filename":     history.ExportFilename,
			"content_type": history.ExportContentType,
			"title":        rec.Title,
		},
	}, nil
}
