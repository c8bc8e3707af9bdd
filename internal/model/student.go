package model

import (
	"encoding/json"
	"time"
)

// Student is a single record in the students table.
type Student struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	ClassLabel string    `json:"class_label"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// StudentRequest is the payload for creating or replacing a student.
// Score stays raw so that presence can be checked before it is coerced;
// both JSON numbers and numeric strings are accepted.
type StudentRequest struct {
	Name       string          `json:"name" binding:"required,notblank"`
	ClassLabel string          `json:"class_label" binding:"required,notblank"`
	Score      json.RawMessage `json:"score" binding:"required"`
}

// StudentFilter narrows a search. Empty fields are ignored.
type StudentFilter struct {
	// Query matches name or class label as a case-insensitive substring.
	Query string
	// Class matches the class label exactly.
	Class string
}
