package models

import (
	"time"
)

// Task timestamps are owned by the service layer so that createdAt equals
// updatedAt on creation and every mutation strictly advances updatedAt.
type Task struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Completed    bool      `gorm:"not null;default:false;index" json:"completed"`
	AssignedToID *uint64   `gorm:"index" json:"assigned_to_id"`
	CreatedByID  *uint64   `gorm:"index" json:"created_by_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false;precision:6;not null;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false;precision:6;not null" json:"updated_at"`

	// Relations. Both references are weak: deleting the user sets them to NULL.
	AssignedTo *User `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
	CreatedBy  *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"created_by,omitempty"`
}
