package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionClientDeleted  = "CLIENT_DELETED"
	ActionCreatorDeleted = "CREATOR_DELETED"

	ActionClientDeletionFailed  = "CLIENT_DELETION_FAILED"
	ActionCreatorDeletionFailed = "CREATOR_DELETION_FAILED"
)

// AuditLog is append-only; the workflow writes one entry per successful
// deletion and never mutates or removes existing entries.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Action     string `gorm:"size:50;not null" json:"action"`
	ActorEmail string `gorm:"size:255;not null" json:"actorEmail"`
	EntityID   string `gorm:"size:36" json:"entityId"`
	Details    string `gorm:"type:text" json:"details"` // JSON snapshot of what was removed/changed
	IPAddress  string `gorm:"size:45" json:"ipAddress"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
