package models

import "time"

// Equipment is a maintainable asset located in a plant area.
type Equipment struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Area string `gorm:"size:100;not null" json:"area"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
