package service

import "github.com/dafibh/fluxo/fluxo-backend/internal/websocket"

// ReportInvalidator drops every cached report of a user
type ReportInvalidator interface {
	InvalidateUser(userID string) int
}

// changeNotifier is embedded by services whose writes affect reports
type changeNotifier struct {
	eventPublisher websocket.EventPublisher
	invalidator    ReportInvalidator
}

// SetEventPublisher sets the WebSocket event publisher
func (n *changeNotifier) SetEventPublisher(publisher websocket.EventPublisher) {
	n.eventPublisher = publisher
}

// SetReportInvalidator sets the cache invalidated on every write
func (n *changeNotifier) SetReportInvalidator(invalidator ReportInvalidator) {
	n.invalidator = invalidator
}

// changed invalidates the user's reports, then tells their clients
func (n *changeNotifier) changed(userID string, event websocket.Event) {
	if n.invalidator != nil {
		n.invalidator.InvalidateUser(userID)
	}
	if n.eventPublisher != nil {
		n.eventPublisher.Publish(userID, event)
		n.eventPublisher.Publish(userID, websocket.ReportsInvalidated(1))
	}
}
