package models

// Group names recognised by the authorization policy.
const (
	GroupAdministrator = "Administrator"
	GroupLimitedUser   = "Limited User"
)

// Group is a named set of users. Roles are derived from membership.
type Group struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`

	// Relations
	Users []User `gorm:"many2many:user_groups;" json:"-"`
}

// TableName avoids the reserved word GROUPS on MySQL.
func (Group) TableName() string {
	return "auth_groups"
}
