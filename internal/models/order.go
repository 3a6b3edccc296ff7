package models

import "time"

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Description string `gorm:"size:255;not null" json:"description"`

	AssignedAt  time.Time  `gorm:"not null;index" json:"assigned_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	EquipmentID uint       `gorm:"not null;index" json:"equipment_id"`
	Equipment   *Equipment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"equipment,omitempty"`

	TechnicianID uint  `gorm:"not null;index" json:"technician_id"`
	Technician   *User `gorm:"foreignKey:TechnicianID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"technician,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
