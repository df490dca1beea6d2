package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultAlertRunwayDays is the runway at or under which an alert is raised
const DefaultAlertRunwayDays = 30

// AlertPublisher delivers runway alerts outside the process
type AlertPublisher interface {
	PublishRunwayAlert(ctx context.Context, alert domain.RunwayAlert) error
}

// AlertService raises runway alerts when a user's projected cash runs out
// within the threshold. An alert is raised once per user per runway value.
type AlertService struct {
	reportService  *ReportService
	thresholdDays  int
	eventPublisher websocket.EventPublisher
	alertPublisher AlertPublisher
	now            func() time.Time

	mu         sync.Mutex
	lastRaised map[string]int
}

// NewAlertService creates a new AlertService
func NewAlertService(reportService *ReportService, thresholdDays int) *AlertService {
	if thresholdDays <= 0 {
		thresholdDays = DefaultAlertRunwayDays
	}
	return &AlertService{
		reportService: reportService,
		thresholdDays: thresholdDays,
		now:           time.Now,
		lastRaised:    make(map[string]int),
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *AlertService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAlertPublisher sets the broker publisher
func (s *AlertService) SetAlertPublisher(publisher AlertPublisher) {
	s.alertPublisher = publisher
}

// ThresholdDays returns the configured threshold
func (s *AlertService) ThresholdDays() int {
	return s.thresholdDays
}

// CheckUser projects the user's cash flow and evaluates it
func (s *AlertService) CheckUser(ctx context.Context, userID string) (*domain.RunwayAlert, error) {
	projection, err := s.reportService.GetCashFlow(ctx, userID, 0, "")
	if err != nil {
		return nil, err
	}
	return s.Evaluate(ctx, userID, projection), nil
}

// Evaluate returns the alert raised for the projection, or nil when the
// runway is beyond the threshold or the same runway was already reported.
func (s *AlertService) Evaluate(ctx context.Context, userID string, projection *domain.CashFlowProjection) *domain.RunwayAlert {
	s.mu.Lock()
	if projection.RunwayDays == nil || *projection.RunwayDays > s.thresholdDays {
		delete(s.lastRaised, userID)
		s.mu.Unlock()
		return nil
	}
	runway := *projection.RunwayDays
	if last, ok := s.lastRaised[userID]; ok && last == runway {
		s.mu.Unlock()
		return nil
	}
	s.lastRaised[userID] = runway
	s.mu.Unlock()

	alert := &domain.RunwayAlert{
		UserID:        userID,
		RunwayDays:    runway,
		ThresholdDays: s.thresholdDays,
		Balance:       projection.StartingBalance,
		RaisedAt:      s.now().UTC(),
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, websocket.RunwayAlertRaised(alert))
	}
	if s.alertPublisher != nil {
		if err := s.alertPublisher.PublishRunwayAlert(ctx, *alert); err != nil {
			log.Warn().
				Err(err).
				Str("user_id", userID).
				Int("runway_days", runway).
				Msg("Failed to publish runway alert to broker")
		}
	}

	return alert
}
