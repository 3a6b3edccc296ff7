package dto

import "time"

// Missing is shown in place of an equipment or technician that no longer exists.
const Missing = "—"

type OrderListDTO struct {
	ID          uint       `json:"id"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AssignedAt  time.Time  `json:"assigned_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	EquipmentName  string `json:"equipment_name"`
	EquipmentArea  string `json:"equipment_area"`
	TechnicianID   uint   `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
}
