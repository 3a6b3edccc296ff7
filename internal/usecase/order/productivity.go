package order

import (
	"context"
	"errors"
	"math"

	domain "github.com/BruksfildServices01/maintenance-orders/internal/domain/order"
	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/report"
)

// TechnicianProductivity sums a technician's completed orders. The result only
// pre-fills the report form; the submitted figures are what get printed.
type TechnicianProductivity struct {
	repo domain.Repository
}

func NewTechnicianProductivity(repo domain.Repository) *TechnicianProductivity {
	return &TechnicianProductivity{repo: repo}
}

func (uc *TechnicianProductivity) Execute(ctx context.Context, technicianID uint) (report.Productivity, error) {
	tech, err := uc.repo.GetUser(ctx, technicianID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return report.Productivity{}, httperr.Validation("The selected technician does not exist.")
		}
		return report.Productivity{}, err
	}

	orders, err := uc.repo.ListCompletedOrders(ctx, technicianID)
	if err != nil {
		return report.Productivity{}, err
	}

	var hours float64
	for i := range orders {
		hours += domain.WorkedHours(&orders[i])
	}

	return report.Productivity{
		TechnicianName:  tech.Name,
		CompletedOrders: len(orders),
		TotalHours:      math.Round(hours*100) / 100,
	}, nil
}
