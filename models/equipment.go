package models

import "time"

// EquipmentStatus is the operational state of a piece of equipment
type EquipmentStatus string

const (
	EquipmentActive           EquipmentStatus = "ACTIVE"
	EquipmentDamaged          EquipmentStatus = "DAMAGED"
	EquipmentUnderMaintenance EquipmentStatus = "UNDER_MAINTENANCE"
	EquipmentRepairing        EquipmentStatus = "REPAIRING"
	EquipmentScrap            EquipmentStatus = "SCRAP"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentActive, EquipmentDamaged, EquipmentUnderMaintenance, EquipmentRepairing, EquipmentScrap:
		return true
	}
	return false
}

// EquipmentNote is an append-only timestamped remark
type EquipmentNote struct {
	At       time.Time `json:"at" dynamodbav:"at"`
	AuthorID string    `json:"authorId" dynamodbav:"authorId"`
	Text     string    `json:"text" dynamodbav:"text"`
}

// Equipment is a physical asset. Status is only a stored cache; the value
// surfaced to callers is derived from open requests.
type Equipment struct {
	ID           string          `json:"id" dynamodbav:"id"`
	Name         string          `json:"name" dynamodbav:"name"`
	SerialNumber string          `json:"serialNumber" dynamodbav:"serialNumber"`
	CategoryID   string          `json:"categoryId" dynamodbav:"categoryId"`
	Department   string          `json:"department" dynamodbav:"department"`
	Company      string          `json:"company" dynamodbav:"company"`
	Location     string          `json:"location" dynamodbav:"location"`
	TeamID       string          `json:"teamId" dynamodbav:"teamId"`
	Status       EquipmentStatus `json:"status" dynamodbav:"status"`
	Notes        []EquipmentNote `json:"notes" dynamodbav:"notes"`
	Version      int64           `json:"version" dynamodbav:"version"`
	CreatedBy    string          `json:"createdBy" dynamodbav:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" dynamodbav:"updatedAt"`
}

// AppendNote adds a note to the equipment history
func (e *Equipment) AppendNote(at time.Time, authorID, text string) {
	e.Notes = append(e.Notes, EquipmentNote{At: at, AuthorID: authorID, Text: text})
}

// EquipmentView is what the API returns: stored record plus derived status
type EquipmentView struct {
	Equipment
	Status       EquipmentStatus `json:"status"`
	StoredStatus EquipmentStatus `json:"storedStatus"`
	CategoryName string          `json:"categoryName,omitempty"`
}

type EquipmentFilter struct {
	TeamID     string `json:"teamId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
}

type CreateEquipmentRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=100"`
	SerialNumber string          `json:"serialNumber" validate:"omitempty,max=100"`
	CategoryID   string          `json:"categoryId" validate:"required"`
	Department   string          `json:"department" validate:"omitempty,max=100"`
	Company      string          `json:"company" validate:"omitempty,max=100"`
	Location     string          `json:"location" validate:"omitempty,max=200"`
	TeamID       string          `json:"teamId" validate:"required"`
	Status       EquipmentStatus `json:"status" validate:"omitempty,oneof=ACTIVE DAMAGED UNDER_MAINTENANCE REPAIRING"`
}

type UpdateEquipmentStatusRequest struct {
	Status EquipmentStatus `json:"status" validate:"required,oneof=ACTIVE DAMAGED UNDER_MAINTENANCE REPAIRING SCRAP"`
	Note   string          `json:"note" validate:"omitempty,max=1000"`
}

type AddEquipmentNoteRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

// CategoryCount is the number of equipment records per category
type CategoryCount struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}
