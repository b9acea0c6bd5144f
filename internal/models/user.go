package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	IsStaff      bool      `gorm:"not null" json:"is_staff"`
	IsSuperuser  bool      `gorm:"not null" json:"is_superuser"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Groups []Group `gorm:"many2many:user_groups;" json:"groups,omitempty"`
}

// GroupNames returns the names of the preloaded groups.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}
