package models

import (
	"time"
)

// Role IDs used across middleware and routes.
const (
	RoleReviewer   = 1
	RoleOrganizer  = 2
	RoleSuperAdmin = 3
)

type User struct {
	UserID         int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName      string     `gorm:"column:first_name" json:"first_name"`
	LastName       string     `gorm:"column:last_name" json:"last_name"`
	Email          string     `gorm:"column:email;unique" json:"email"`
	Password       string     `gorm:"column:password" json:"-"`
	RoleID         int        `gorm:"column:role_id" json:"role_id"`
	ExpertiseLevel float64    `gorm:"column:expertise_level;default:1" json:"expertise_level"`
	Affiliation    *string    `gorm:"column:affiliation" json:"affiliation,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int    `gorm:"primaryKey;column:role_id" json:"role_id"`
	RoleName string `gorm:"column:role_name" json:"role_name"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// IsReviewer reports whether the user may be assigned reviews. Organizers
// and super admins can review their own programs as well.
func (u *User) IsReviewer() bool {
	return u.RoleID == RoleReviewer || u.RoleID == RoleOrganizer || u.RoleID == RoleSuperAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
