package order

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/maintenance-orders/internal/audit"
	domain "github.com/BruksfildServices01/maintenance-orders/internal/domain/order"
	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/metrics"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

const maxDescriptionLen = 255

// ======================================================
// INPUT
// ======================================================

type CreateOrderInput struct {
	Actor *models.User

	Description  string
	EquipmentID  uint
	TechnicianID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateOrder struct {
	repo  domain.Repository
	audit audit.Sink
	now   func() time.Time
}

func NewCreateOrder(
	repo domain.Repository,
	audit audit.Sink,
	now func() time.Time,
) *CreateOrder {
	return &CreateOrder{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

func (uc *CreateOrder) Execute(
	ctx context.Context,
	in CreateOrderInput,
) (*models.Order, error) {

	if !in.Actor.IsManager() {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, httperr.Validation("Description is required.")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, httperr.Validation("Description must be at most 255 characters.")
	}

	if in.EquipmentID == 0 {
		return nil, httperr.Validation("Select the equipment to service.")
	}
	if _, err := uc.repo.GetEquipment(ctx, in.EquipmentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.Validation("The selected equipment does not exist.")
		}
		return nil, err
	}

	if in.TechnicianID == 0 {
		return nil, httperr.Validation("Select a technician.")
	}
	tech, err := uc.repo.GetUser(ctx, in.TechnicianID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.Validation("The selected technician does not exist.")
		}
		return nil, err
	}
	if tech.Role != models.RoleTechnician {
		return nil, httperr.Validation("Orders can only be assigned to technicians.")
	}

	o := &models.Order{
		Description:  description,
		AssignedAt:   uc.now(),
		Status:       string(domain.InitialStatus()),
		EquipmentID:  in.EquipmentID,
		TechnicianID: in.TechnicianID,
	}

	if err := uc.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   audit.ActionOrderCreated,
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: map[string]any{
			"equipment_id":  o.EquipmentID,
			"technician_id": o.TechnicianID,
		},
	})

	return o, nil
}
