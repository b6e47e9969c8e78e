package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yoshii001/Content-Generator/internal/auth"
	"github.com/yoshii001/Content-Generator/internal/config"
	"github.com/yoshii001/Content-Generator/internal/relay"
	"github.com/yoshii001/Content-Generator/internal/storage"
	"github.com/yoshii001/Content-Generator/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	var allowRepo auth.Repository
	if cfg.AllowlistFilePath != "" {
		allowRepo = auth.NewFileRepository(cfg.AllowlistFilePath)
	}
	authSvc, err := auth.NewWithRepo(allowRepo, cfg.AllowedUsers)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}
	if authSvc.Open() {
		log.Println("⚠️ Allowlist is empty, every Telegram user may generate content")
	}

	slots, closeSlots, err := storage.OpenSlots(cfg)
	if err != nil {
		log.Fatalf("failed to open history storage: %v", err)
	}
	defer closeSlots()

	gen := relay.NewClient(cfg.RelayURL, &http.Client{})
	bot, err := telegram.New(cfg.TelegramBotToken, authSvc, gen, slots, telegram.Options{
		SlotBase: cfg.HistorySlot,
		Timeout:  cfg.RelayTimeout,
	})
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot.Start(ctx)
}
