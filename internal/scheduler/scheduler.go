package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the usage report daily at 21:00 UTC.
const DefaultSpec = "0 21 * * *"

var ErrNoReportFunc = errors.New("report function not set")

// Scheduler runs the periodic usage report.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
}

// New creates a scheduler for the given cron spec (UTC). An empty spec means DefaultSpec.
func New(spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		log.Println("⚠️ Report function not set, scheduler will not generate reports")
		return ErrNoReportFunc
	}

	_, err := s.cron.AddFunc(s.spec, s.runReport)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - usage reports on %q (UTC)", s.spec)
	return nil
}

// RunNow triggers the report outside the schedule.
func (s *Scheduler) RunNow() {
	s.runReport()
}

func (s *Scheduler) runReport() {
	if s.reportFunc == nil {
		return
	}
	log.Println("🕘 Triggered usage report generation")
	if err := s.reportFunc(s.ctx); err != nil {
		log.Printf("❌ Usage report generation failed: %v", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
