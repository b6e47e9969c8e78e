package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yoshii001/Content-Generator/internal/analytics"
	"github.com/yoshii001/Content-Generator/internal/config"
	"github.com/yoshii001/Content-Generator/internal/llm"
	"github.com/yoshii001/Content-Generator/internal/relay"
	"github.com/yoshii001/Content-Generator/internal/scheduler"
	"github.com/yoshii001/Content-Generator/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	factory := llm.NewFactory(cfg)
	provider := string(cfg.LLMProvider)
	client, err := factory.CreateClient(provider)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	var rec storage.Recorder
	if cfg.UsageLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.UsageLogPath)
		if err != nil {
			log.Printf("failed to init usage log: %v", err)
		} else {
			rec = fr
		}
	}

	srv := relay.NewServer(client, relay.Options{
		Addr:     cfg.RelayAddr,
		Provider: provider,
		Model:    factory.ModelName(provider),
		Recorder: rec,
	})

	var sched *scheduler.Scheduler
	if rec != nil {
		sched = scheduler.New(cfg.ReportSchedule)
		sched.SetReportFunction(func(ctx context.Context) error {
			return reportUsage(rec, time.Now().UTC())
		})
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
			sched = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down relay...")
		if err := srv.Stop(); err != nil {
			log.Printf("relay shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("relay failed: %v", err)
	}
	if sched != nil {
		sched.Stop()
	}
}

// reportUsage logs the usage summary of the given UTC day.
func reportUsage(rec storage.Recorder, day time.Time) error {
	events, err := rec.LoadInteractions()
	if err != nil {
		return fmt.Errorf("load usage events: %w", err)
	}
	stats := analytics.AnalyzeDailyLogs(events, day)
	log.Printf("📊 %s", stats.GenerateReportSummary())
	if js, err := stats.ToJSON(); err == nil {
		log.Printf("📊 usage details: %s", js)
	}
	return nil
}
