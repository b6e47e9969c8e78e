package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yoshii001/Content-Generator/internal/config"
	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/relay"
	"github.com/yoshii001/Content-Generator/internal/session"
	"github.com/yoshii001/Content-Generator/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "generator",
	Short: "Generate text content through the relay and keep a local history",
	Long: `generator sends prompts to the content relay, shows the generated text
and keeps every successful generation in a local history log that can be
listed, deleted from and exported.`,
	SilenceUsage: true,
}

// app is what every subcommand works against.
type app struct {
	cfg   *config.Config
	store *history.Store
	ctrl  *session.Controller
	close func() error
}

func openApp() (*app, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, err
	}
	slots, closeSlots, err := storage.OpenSlots(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history storage: %w", err)
	}
	store := history.Open(slots, cfg.HistorySlot)
	ctrl := session.NewController(
		relay.NewClient(cfg.RelayURL, &http.Client{}),
		store,
		session.WithTimeout(cfg.RelayTimeout),
	)
	return &app{cfg: cfg, store: store, ctrl: ctrl, close: closeSlots}, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env file not loaded: %v", err)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
