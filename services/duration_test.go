package services

import (
	"maintrack-backend/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutoDuration(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name string
		req  *models.MaintenanceRequest
		want float64
	}{
		{"two hours", &models.MaintenanceRequest{InProgressAt: at(2 * time.Hour)}, 2.0},
		{"rounds to one decimal", &models.MaintenanceRequest{InProgressAt: at(100 * time.Minute)}, 1.7},
		{"half rounds up", &models.MaintenanceRequest{InProgressAt: at(45 * time.Minute)}, 0.8},
		{"floored", &models.MaintenanceRequest{InProgressAt: at(time.Minute)}, 0.1},
		{"clock skew floored", &models.MaintenanceRequest{InProgressAt: at(-time.Hour)}, 0.1},
		{"falls back to updatedAt", &models.MaintenanceRequest{UpdatedAt: now.Add(-3 * time.Hour)}, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AutoDuration(tt.req, now), 0.0001)
		})
	}
}

func TestResolveDuration(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	req := &models.MaintenanceRequest{InProgressAt: &start}

	explicit := 4.25
	assert.InDelta(t, 4.25, resolveDuration(req, &explicit, now), 0.0001)

	tiny := 0.004
	assert.InDelta(t, 0.1, resolveDuration(req, &tiny, now), 0.0001)

	zero := 0.0
	assert.InDelta(t, 1.0, resolveDuration(req, &zero, now), 0.0001)
	assert.InDelta(t, 1.0, resolveDuration(req, nil, now), 0.0001)
}
