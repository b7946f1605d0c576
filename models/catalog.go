package models

import "time"

// Category classifies equipment (e.g. "Compressors", "Forklifts")
type Category struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description" dynamodbav:"description"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// WorkCenter is a production location that can be the target of a request
type WorkCenter struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Code      string    `json:"code" dynamodbav:"code"`
	Company   string    `json:"company" dynamodbav:"company"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type CreateWorkCenterRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Code    string `json:"code" validate:"omitempty,max=32"`
	Company string `json:"company" validate:"omitempty,max=100"`
}
