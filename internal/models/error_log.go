package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrorLog captures workflow failures for after-the-fact reconciliation.
// Writes are best-effort; a failed write is never surfaced to callers.
type ErrorLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Action  string `gorm:"size:50;not null" json:"action"`
	Message string `gorm:"type:text" json:"message"`
	Detail  string `gorm:"type:text" json:"detail"`
	// Step is the furthest workflow step reached before the failure,
	// empty when the failure happened before authorization completed.
	Step string `gorm:"size:50" json:"step"`
}

func (ErrorLog) TableName() string { return "error_logs" }

func (e *ErrorLog) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
