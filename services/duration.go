package services

import (
	"maintrack-backend/models"
	"time"

	"github.com/shopspring/decimal"
)

var minimumDurationHours = decimal.NewFromFloat(0.1)

// AutoDuration is the time spent in IN_PROGRESS in hours, rounded to one
// decimal and floored at 0.1. Requests without inProgressAt fall back to
// their last update.
func AutoDuration(req *models.MaintenanceRequest, now time.Time) float64 {
	start := req.UpdatedAt
	if req.InProgressAt != nil {
		start = *req.InProgressAt
	}

	hours := decimal.NewFromFloat(now.Sub(start).Hours()).Round(1)
	if hours.LessThan(minimumDurationHours) {
		hours = minimumDurationHours
	}
	return hours.InexactFloat64()
}

// resolveDuration keeps a positive explicit duration, rounded to two
// decimals and floored at 0.1, and computes one otherwise
func resolveDuration(req *models.MaintenanceRequest, explicit *float64, now time.Time) float64 {
	if explicit != nil && *explicit > 0 {
		hours := decimal.NewFromFloat(*explicit).Round(2)
		if hours.LessThan(minimumDurationHours) {
			hours = minimumDurationHours
		}
		return hours.InexactFloat64()
	}
	return AutoDuration(req, now)
}
