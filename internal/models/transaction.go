package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction records a payment from a client, usually against one task.
type Transaction struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ClientID   string `gorm:"size:36;index;not null" json:"clientId"`
	ClientName string `gorm:"size:255" json:"clientName"`

	TaskID      string `gorm:"size:36;index" json:"taskId"`
	ProjectName string `gorm:"size:255" json:"projectName"`

	Amount          float64   `gorm:"not null" json:"amount"`
	PaymentMethod   string    `gorm:"size:50" json:"paymentMethod"`
	TransactionDate time.Time `json:"transactionDate"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
