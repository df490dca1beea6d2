package amqp

import (
	"encoding/json"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
)

// RunwayAlertMessage is the broker payload for a raised runway alert.
// Balances are fixed two-decimal strings so consumers never parse floats.
type RunwayAlertMessage struct {
	UserID        string    `json:"userId"`
	RunwayDays    int       `json:"runwayDays"`
	ThresholdDays int       `json:"thresholdDays"`
	Balance       string    `json:"balance"`
	RaisedAt      time.Time `json:"raisedAt"`
}

// NewRunwayAlertMessage builds a message from a domain alert
func NewRunwayAlertMessage(alert domain.RunwayAlert) *RunwayAlertMessage {
	return &RunwayAlertMessage{
		UserID:        alert.UserID,
		RunwayDays:    alert.RunwayDays,
		ThresholdDays: alert.ThresholdDays,
		Balance:       alert.Balance.StringFixed(2),
		RaisedAt:      alert.RaisedAt.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RunwayAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RunwayAlertMessageFromJSON creates a message from JSON bytes
func RunwayAlertMessageFromJSON(data []byte) (*RunwayAlertMessage, error) {
	var msg RunwayAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
