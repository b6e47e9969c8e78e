package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yoshii001/Content-Generator/internal/config"
	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/mcptools"
	"github.com/yoshii001/Content-Generator/internal/relay"
	"github.com/yoshii001/Content-Generator/internal/session"
	"github.com/yoshii001/Content-Generator/internal/storage"
)

func main() {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	slots, closeSlots, err := storage.OpenSlots(cfg)
	if err != nil {
		log.Fatalf("❌ failed to open history storage: %v", err)
	}
	defer closeSlots()

	store := history.Open(slots, cfg.HistorySlot)
	ctrl := session.NewController(
		relay.NewClient(cfg.RelayURL, &http.Client{}),
		store,
		session.WithTimeout(cfg.RelayTimeout),
	)

	server := mcptools.NewServer(mcptools.NewContentServer(ctrl, store), "1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 Content generator MCP server starting (relay %s)", cfg.RelayURL)
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		log.Printf("❌ MCP server stopped: %v", err)
	}
}
