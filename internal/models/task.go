package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkStatus string
type PaymentStatus string

const (
	WorkPending    WorkStatus = "Pending"
	WorkInProgress WorkStatus = "In Progress"
	WorkCompleted  WorkStatus = "Completed"

	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentPaid    PaymentStatus = "Paid"
)

func ValidWorkStatus(s WorkStatus) bool {
	return s == WorkPending || s == WorkInProgress || s == WorkCompleted
}

func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentUnpaid || s == PaymentPartial || s == PaymentPaid
}

type Task struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// SlNo is allocated inside the create transaction; the unique index
	// turns a concurrent double-allocation into a write error instead of a
	// silent duplicate.
	SlNo int `gorm:"uniqueIndex;not null" json:"slNo"`

	ClientID   string `gorm:"size:36;index;not null" json:"clientId"`
	ClientName string `gorm:"size:255" json:"clientName"`

	AssigneeID   *string `gorm:"size:36;index" json:"assigneeId"`
	AssigneeName string  `gorm:"size:255" json:"assigneeName"`

	ProjectName string  `gorm:"size:255;not null" json:"projectName"`
	Pages       int     `json:"pages"`
	Rate        float64 `json:"rate"`
	// Total is derived; BeforeSave recomputes it on every write.
	Total float64 `json:"total"`

	WorkStatus    WorkStatus    `gorm:"type:varchar(20);not null" json:"workStatus"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	AmountPaid    float64       `json:"amountPaid"`

	AcceptedDate   *time.Time `json:"acceptedDate"`
	SubmissionDate *time.Time `json:"submissionDate"`

	Notes     string   `gorm:"type:text" json:"notes"`
	FileLinks []string `gorm:"serializer:json" json:"fileLinks"`

	// audit trail stamps written by the creator-deletion workflow
	ReassignedFrom *string    `gorm:"size:36" json:"reassignedFrom,omitempty"`
	ReassignedAt   *time.Time `json:"reassignedAt,omitempty"`
	ReassignedBy   string     `gorm:"size:255" json:"reassignedBy,omitempty"`
	UnassignedFrom *string    `gorm:"size:36" json:"unassignedFrom,omitempty"`
	UnassignedAt   *time.Time `json:"unassignedAt,omitempty"`
	UnassignedBy   string     `gorm:"size:255" json:"unassignedBy,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps total consistent with pages and rate no matter which
// write path touched the record.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.Total = float64(t.Pages) * t.Rate
	return nil
}
