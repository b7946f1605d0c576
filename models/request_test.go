package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionGrid(t *testing.T) {
	allowed := map[[2]Stage]bool{
		{StageNew, StageInProgress}:      true,
		{StageInProgress, StageRepaired}: true,
		{StageInProgress, StageScrap}:    true,
	}

	for _, from := range Stages {
		for _, to := range Stages {
			want := allowed[[2]Stage{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStages(t *testing.T) {
	assert.False(t, StageNew.Terminal())
	assert.False(t, StageInProgress.Terminal())
	assert.True(t, StageRepaired.Terminal())
	assert.True(t, StageScrap.Terminal())
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		req  MaintenanceRequest
		want bool
	}{
		{"preventive past open", MaintenanceRequest{Type: RequestPreventive, Stage: StageNew, ScheduledDate: &past}, true},
		{"preventive past in progress", MaintenanceRequest{Type: RequestPreventive, Stage: StageInProgress, ScheduledDate: &past}, true},
		{"preventive future", MaintenanceRequest{Type: RequestPreventive, Stage: StageNew, ScheduledDate: &future}, false},
		{"preventive past repaired", MaintenanceRequest{Type: RequestPreventive, Stage: StageRepaired, ScheduledDate: &past}, false},
		{"preventive past scrapped", MaintenanceRequest{Type: RequestPreventive, Stage: StageScrap, ScheduledDate: &past}, false},
		{"corrective", MaintenanceRequest{Type: RequestCorrective, Stage: StageNew}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.IsOverdue(now))
		})
	}
}

func TestActorTeams(t *testing.T) {
	user := &User{ID: "u1", Role: RoleTechnician, TeamIDs: []string{"t1", "t2"}}
	actor := user.Actor()

	assert.True(t, actor.InTeam("t2"))
	assert.False(t, actor.InTeam("t3"))
	assert.True(t, actor.IsTechnician())
	assert.False(t, actor.IsManager())

	actor.TeamIDs[0] = "changed"
	assert.Equal(t, "t1", user.TeamIDs[0])
}

func TestConfigTableName(t *testing.T) {
	assert.Equal(t, "dev_requests", (&Config{DynamoDBTablePrefix: "dev"}).TableName("requests"))
	assert.Equal(t, "requests", (&Config{}).TableName("requests"))
}
