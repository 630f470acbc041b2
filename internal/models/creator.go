package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Creator is an assignee who works on tasks. Deleting a creator never
// cascades to their tasks; the workflow reassigns or unassigns them.
type Creator struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Email       string `gorm:"size:255" json:"email"`
	Description string `gorm:"type:text" json:"description"`
	Avatar      string `gorm:"size:512" json:"avatar"`
	Mobile      string `gorm:"size:50" json:"mobile"`
}

func (c *Creator) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
