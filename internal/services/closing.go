package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/report"
	"clinica/internal/store"
)

// MonthClosingChecker decides when the previous month's reports are due
// for their closing export.
type MonthClosingChecker struct {
	// Day of the new month from which the closing runs. Values below 1
	// mean the first day; days past the month's end clamp to its last day.
	Day int
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// IsDue reports whether the month before now still has to be closed.
// lastClosed is any instant inside the last closed month; zero means never.
func (c MonthClosingChecker) IsDue(lastClosed, now time.Time) bool {
	previous := monthStart(now).AddDate(0, -1, 0)
	if !lastClosed.IsZero() && !monthStart(lastClosed).Before(previous) {
		return false
	}

	day := c.Day
	if day < 1 {
		day = 1
	}
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return now.Day() >= day
}

// ClosingScheduler queues the closing exports of every clinic once per month.
type ClosingScheduler struct {
	clinics  store.ClinicLister
	exports  *ExportService
	checker  MonthClosingChecker
	interval time.Duration

	mu      sync.Mutex
	closed  map[string]time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewClosingScheduler(clinics store.ClinicLister, exports *ExportService, checker MonthClosingChecker, interval time.Duration) *ClosingScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ClosingScheduler{
		clinics:  clinics,
		exports:  exports,
		checker:  checker,
		interval: interval,
		closed:   make(map[string]time.Time),
	}
}

// RunOnce requests the closing exports that are due at now and returns how
// many messages were queued.
func (s *ClosingScheduler) RunOnce(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.clinics.ListClinics(ctx)
	if err != nil {
		return 0, fmt.Errorf("list clinics: %w", err)
	}
	current, err := report.ResolveMonth("", now)
	if err != nil {
		return 0, err
	}
	previous := current.Previous()
	month := previous.CurrentMonth

	queued := 0
	var errs []error
	for _, id := range ids {
		s.mu.Lock()
		last := s.closed[id]
		s.mu.Unlock()
		if !s.checker.IsDue(last, now) {
			continue
		}

		ok := true
		for _, k := range Kinds {
			if _, err := s.exports.request(ctx, string(k), id, month, amqp.ReasonClosing); err != nil {
				errs = append(errs, fmt.Errorf("clinic %s %s: %w", id, k, err))
				ok = false
				continue
			}
			queued++
		}
		if ok {
			s.mu.Lock()
			s.closed[id] = previous.Start().Time
			s.mu.Unlock()
			slog.InfoContext(ctx, "Month closed", "component", "scheduler", "clinica_id", id, "month", month)
		}
	}
	return queued, errors.Join(errs...)
}

// Start runs RunOnce immediately and then every interval until Stop or ctx
// cancellation.
func (s *ClosingScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("closing scheduler is already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.loop(ctx)
	slog.InfoContext(ctx, "Closing scheduler started", "component", "scheduler", "interval", s.interval)
	return nil
}

func (s *ClosingScheduler) loop(ctx context.Context) {
	defer close(s.doneCh)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ClosingScheduler) tick(ctx context.Context) {
	n, err := s.RunOnce(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "Closing run failed", "component", "scheduler", "error", err, "queued", n)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Closing exports queued", "component", "scheduler", "queued", n)
	}
}

// Stop ends the loop and waits for it, bounded by ctx.
func (s *ClosingScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ClosingScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
