package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/rs/zerolog"
)

// AlertWorker is a background worker that periodically checks every user's runway
type AlertWorker struct {
	alertService  *AlertService
	recurringRepo domain.RecurringRepository
	logger        zerolog.Logger
	interval      time.Duration
	mu            sync.Mutex
	running       bool
	// stopCh and doneCh belong to the current run and are replaced on every Start
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// AlertWorkerConfig holds configuration for the alert worker
type AlertWorkerConfig struct {
	Interval time.Duration // How often to run the runway check
}

// DefaultAlertWorkerConfig returns sensible defaults
func DefaultAlertWorkerConfig() AlertWorkerConfig {
	return AlertWorkerConfig{
		Interval: 1 * time.Hour,
	}
}

// NewAlertWorker creates a new alert worker
func NewAlertWorker(
	alertService *AlertService,
	recurringRepo domain.RecurringRepository,
	logger zerolog.Logger,
	config AlertWorkerConfig,
) *AlertWorker {
	if config.Interval <= 0 {
		config.Interval = 1 * time.Hour
	}

	return &AlertWorker{
		alertService:  alertService,
		recurringRepo: recurringRepo,
		logger:        logger.With().Str("component", "alert_worker").Logger(),
		interval:      config.Interval,
	}
}

// Start begins the background runway checks
func (w *AlertWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stop, done := w.stopCh, w.doneCh
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Int("threshold_days", w.alertService.ThresholdDays()).
		Msg("Starting alert worker")

	go w.run(ctx, stop, done)
}

// Stop gracefully stops the alert worker. Only the first of concurrent
// callers waits for the loop to exit.
func (w *AlertWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stop, done := w.stopCh, w.doneCh
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping alert worker")
	close(stop)
	<-done
	w.logger.Info().Msg("Alert worker stopped")
}

// run is the main loop for the alert worker
func (w *AlertWorker) run(ctx context.Context, stop <-chan struct{}, done chan struct{}) {
	defer func() {
		w.mu.Lock()
		if w.doneCh == done {
			w.running = false
		}
		w.mu.Unlock()
		close(done)
	}()

	// Run immediately on startup
	w.checkAllUsers(ctx, stop)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			w.checkAllUsers(ctx, stop)
		}
	}
}

// checkAllUsers evaluates the runway of every user owning active recurring
// items. A nil stop never fires.
func (w *AlertWorker) checkAllUsers(ctx context.Context, stop <-chan struct{}) {
	w.logger.Debug().Msg("Starting runway check for all users")
	startTime := time.Now()

	users, err := w.recurringRepo.ListActiveOwners(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to get users for runway check")
		return
	}

	raised := 0
	failures := 0

	for _, userID := range users {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Context cancelled, stopping check")
			return
		case <-stop:
			w.logger.Info().Msg("Stop signal received, stopping check")
			return
		default:
		}

		alert, err := w.alertService.CheckUser(ctx, userID)
		if err != nil {
			w.logger.Error().
				Err(err).
				Str("user_id", userID).
				Msg("Failed to check runway for user")
			failures++
			continue
		}

		if alert != nil {
			raised++
			w.logger.Info().
				Str("user_id", userID).
				Int("runway_days", alert.RunwayDays).
				Msg("Raised runway alert")
		}
	}

	w.logger.Info().
		Int("users", len(users)).
		Int("alerts_raised", raised).
		Int("errors", failures).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed runway check")
}

// CheckNow runs a single pass synchronously
func (w *AlertWorker) CheckNow(ctx context.Context) {
	w.checkAllUsers(ctx, nil)
}

// IsRunning returns whether the worker is currently running
func (w *AlertWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
