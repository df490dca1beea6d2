package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunwayAlert is raised when the projected cash runs out within the threshold.
type RunwayAlert struct {
	UserID        string          `json:"userId"`
	RunwayDays    int             `json:"runwayDays"`
	ThresholdDays int             `json:"thresholdDays"`
	Balance       decimal.Decimal `json:"balance"`
	RaisedAt      time.Time       `json:"raisedAt"`
}
