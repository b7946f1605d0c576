package models

import "time"

// RequestCard is a request as rendered on the kanban board
type RequestCard struct {
	*MaintenanceRequest
	IsOverdue bool `json:"isOverdue"`
}

// KanbanColumn holds the cards of one stage, newest first
type KanbanColumn struct {
	Stage Stage          `json:"stage"`
	Cards []*RequestCard `json:"cards"`
}

// CalendarEvent is a scheduled preventive request
type CalendarEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	EquipmentName string    `json:"equipmentName"`
	Stage         Stage     `json:"stage"`
}

// TeamRequestCount is the number of visible requests per team
type TeamRequestCount struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Count    int    `json:"count"`
}

// CriticalEquipment is equipment that has needed repeated repairs
type CriticalEquipment struct {
	EquipmentID   string          `json:"equipmentId"`
	EquipmentName string          `json:"equipmentName"`
	Repairs       int             `json:"repairs"`
	Health        int             `json:"health"`
	Status        EquipmentStatus `json:"status"`
}

// TechnicianLoad summarizes how busy the technician pool is
type TechnicianLoad struct {
	Technicians   int `json:"technicians"`
	AssignedOpen  int `json:"assignedOpen"`
	UtilizationPc int `json:"utilizationPercent"`
}

// RecentRequest is a denormalized open request for the dashboard feed
type RecentRequest struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Stage      Stage     `json:"stage"`
	Employee   string    `json:"employee"`
	Technician string    `json:"technician"`
	Category   string    `json:"category"`
	Company    string    `json:"company"`
	CreatedAt  time.Time `json:"createdAt"`
	IsOverdue  bool      `json:"isOverdue"`
}

// DashboardStats is the manager overview
type DashboardStats struct {
	CriticalEquipment []*CriticalEquipment `json:"criticalEquipment"`
	TechnicianLoad    TechnicianLoad       `json:"technicianLoad"`
	OpenRequests      int                  `json:"openRequests"`
	OverdueRequests   int                  `json:"overdueRequests"`
	RecentRequests    []*RecentRequest     `json:"recentRequests"`
	GeneratedAt       time.Time            `json:"generatedAt"`
}
