package models

import "time"

// Stage is the lifecycle state of a maintenance request
type Stage string

const (
	StageNew        Stage = "NEW"
	StageInProgress Stage = "IN_PROGRESS"
	StageRepaired   Stage = "REPAIRED"
	StageScrap      Stage = "SCRAP"
)

// Stages lists every stage in board order
var Stages = []Stage{StageNew, StageInProgress, StageRepaired, StageScrap}

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	}
	return false
}

// Terminal reports whether no transition can leave the stage
func (s Stage) Terminal() bool {
	return s == StageRepaired || s == StageScrap
}

var stageTransitions = map[Stage][]Stage{
	StageNew:        {StageInProgress},
	StageInProgress: {StageRepaired, StageScrap},
	StageRepaired:   {},
	StageScrap:      {},
}

// CanTransition reports whether from -> to is an allowed lifecycle edge
func CanTransition(from, to Stage) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequestType distinguishes breakdown repairs from planned maintenance
type RequestType string

const (
	RequestCorrective RequestType = "CORRECTIVE"
	RequestPreventive RequestType = "PREVENTIVE"
)

func (t RequestType) Valid() bool {
	return t == RequestCorrective || t == RequestPreventive
}

// MaintenanceFor names the kind of target a request is raised against
type MaintenanceFor string

const (
	ForEquipment  MaintenanceFor = "EQUIPMENT"
	ForWorkCenter MaintenanceFor = "WORK_CENTER"
)

// MaintenanceRequest is a unit of maintenance work
type MaintenanceRequest struct {
	ID               string         `json:"id" dynamodbav:"id"`
	Type             RequestType    `json:"type" dynamodbav:"type"`
	Subject          string         `json:"subject" dynamodbav:"subject"`
	Description      string         `json:"description" dynamodbav:"description"`
	MaintenanceFor   MaintenanceFor `json:"maintenanceFor" dynamodbav:"maintenanceFor"`
	EquipmentID      string         `json:"equipmentId,omitempty" dynamodbav:"equipmentId,omitempty"`
	WorkCenterID     string         `json:"workCenterId,omitempty" dynamodbav:"workCenterId,omitempty"`
	CategorySnapshot string         `json:"categorySnapshot" dynamodbav:"categorySnapshot"`
	TeamID           string         `json:"teamId" dynamodbav:"teamId"`
	TechnicianID     string         `json:"technicianId,omitempty" dynamodbav:"technicianId,omitempty"`
	Stage            Stage          `json:"stage" dynamodbav:"stage"`
	ScheduledDate    *time.Time     `json:"scheduledDate,omitempty" dynamodbav:"scheduledDate,omitempty"`
	DurationHours    *float64       `json:"durationHours,omitempty" dynamodbav:"durationHours,omitempty"`
	InProgressAt     *time.Time     `json:"inProgressAt,omitempty" dynamodbav:"inProgressAt,omitempty"`
	CreatedBy        string         `json:"createdBy" dynamodbav:"createdBy"`
	Version          int64          `json:"version" dynamodbav:"version"`
	CreatedAt        time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt" dynamodbav:"updatedAt"`
}

// IsOverdue is true for open preventive work whose scheduled date has passed
func (r *MaintenanceRequest) IsOverdue(now time.Time) bool {
	return r.Type == RequestPreventive &&
		!r.Stage.Terminal() &&
		r.ScheduledDate != nil &&
		r.ScheduledDate.Before(now)
}

// RequestFilter narrows repository listings. TeamIDs matches any of the teams.
type RequestFilter struct {
	TeamIDs     []string    `json:"teamIds,omitempty"`
	CreatedBy   string      `json:"createdBy,omitempty"`
	EquipmentID string      `json:"equipmentId,omitempty"`
	Type        RequestType `json:"type,omitempty"`
	Stages      []Stage     `json:"stages,omitempty"`
}

type CreateRequestCommand struct {
	Type           RequestType    `json:"type" validate:"required,oneof=CORRECTIVE PREVENTIVE"`
	Subject        string         `json:"subject" validate:"required,min=3,max=200"`
	Description    string         `json:"description" validate:"omitempty,max=2000"`
	MaintenanceFor MaintenanceFor `json:"maintenanceFor" validate:"required,oneof=EQUIPMENT WORK_CENTER"`
	EquipmentID    string         `json:"equipmentId"`
	WorkCenterID   string         `json:"workCenterId"`
	TeamID         string         `json:"teamId"`
	TechnicianID   string         `json:"technicianId"`
	ScheduledDate  *time.Time     `json:"scheduledDate"`
}

type ChangeStageCommand struct {
	Stage         Stage    `json:"stage" validate:"required,oneof=NEW IN_PROGRESS REPAIRED SCRAP"`
	DurationHours *float64 `json:"durationHours" validate:"omitempty,gte=0"`
}

type AssignCommand struct {
	TechnicianID string `json:"technicianId" validate:"required"`
}

type CompleteCommand struct {
	DurationHours *float64 `json:"durationHours"`
}

type UpdateStatusCommand struct {
	Stage Stage `json:"stage" validate:"required,oneof=NEW IN_PROGRESS REPAIRED SCRAP"`
}

type UpdateTeamCommand struct {
	TeamID       string `json:"teamId"`
	TechnicianID string `json:"technicianId"`
}
