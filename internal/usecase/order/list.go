package order

import (
	"context"

	domain "github.com/BruksfildServices01/maintenance-orders/internal/domain/order"
	"github.com/BruksfildServices01/maintenance-orders/internal/dto"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

type ListOrders struct {
	repo domain.Repository
}

func NewListOrders(repo domain.Repository) *ListOrders {
	return &ListOrders{repo: repo}
}

func (uc *ListOrders) Execute(ctx context.Context) ([]dto.OrderListDTO, error) {
	orders, err := uc.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.OrderListDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toListDTO(&orders[i]))
	}
	return out, nil
}

func toListDTO(o *models.Order) dto.OrderListDTO {
	row := dto.OrderListDTO{
		ID:             o.ID,
		Description:    o.Description,
		Status:         o.Status,
		AssignedAt:     o.AssignedAt,
		StartedAt:      o.StartedAt,
		CompletedAt:    o.CompletedAt,
		EquipmentName:  dto.Missing,
		EquipmentArea:  dto.Missing,
		TechnicianID:   o.TechnicianID,
		TechnicianName: dto.Missing,
	}

	if o.Equipment != nil {
		row.EquipmentName = o.Equipment.Name
		row.EquipmentArea = o.Equipment.Area
	}
	if o.Technician != nil {
		row.TechnicianName = o.Technician.Name
	}
	return row
}

// FormOptions loads the selector contents for the order creation form.
type FormOptions struct {
	repo domain.Repository
}

func NewFormOptions(repo domain.Repository) *FormOptions {
	return &FormOptions{repo: repo}
}

func (uc *FormOptions) Execute(ctx context.Context) ([]models.Equipment, []models.User, error) {
	equipment, err := uc.repo.ListEquipment(ctx)
	if err != nil {
		return nil, nil, err
	}

	technicians, err := uc.repo.ListTechnicians(ctx)
	if err != nil {
		return nil, nil, err
	}
	return equipment, technicians, nil
}
