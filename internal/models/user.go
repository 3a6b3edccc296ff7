package models

import "time"

const (
	RoleManager    = "manager"
	RoleTechnician = "technician"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:'technician'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

func IsValidRole(role string) bool {
	return role == RoleManager || role == RoleTechnician
}
