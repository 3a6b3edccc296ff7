package order

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/maintenance-orders/internal/audit"
	domain "github.com/BruksfildServices01/maintenance-orders/internal/domain/order"
	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/metrics"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

type transition struct {
	repo  domain.Repository
	audit audit.Sink
	now   func() time.Time
}

func (t *transition) run(
	ctx context.Context,
	actor *models.User,
	orderID uint,
	apply func(*models.Order, time.Time) error,
	action string,
) (*models.Order, error) {

	o, err := t.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeOrderNotFound)
		}
		return nil, err
	}

	if !domain.CanActOn(actor, o) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	from := domain.Status(o.Status)
	if err := apply(o, t.now()); err != nil {
		return nil, err
	}

	if err := t.repo.UpdateOrderStatus(ctx, o, from); err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
		}
		return nil, err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(o.Status).Inc()
	t.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   action,
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: map[string]any{"from": string(from), "to": o.Status},
	})

	return o, nil
}

// StartOrder moves a pending order to in_progress.
type StartOrder struct {
	transition
}

func NewStartOrder(repo domain.Repository, audit audit.Sink, now func() time.Time) *StartOrder {
	return &StartOrder{transition{repo: repo, audit: audit, now: now}}
}

func (uc *StartOrder) Execute(ctx context.Context, actor *models.User, orderID uint) (*models.Order, error) {
	return uc.run(ctx, actor, orderID, domain.Start, audit.ActionOrderStarted)
}

// CompleteOrder moves an in_progress order to completed.
type CompleteOrder struct {
	transition
}

func NewCompleteOrder(repo domain.Repository, audit audit.Sink, now func() time.Time) *CompleteOrder {
	return &CompleteOrder{transition{repo: repo, audit: audit, now: now}}
}

func (uc *CompleteOrder) Execute(ctx context.Context, actor *models.User, orderID uint) (*models.Order, error) {
	return uc.run(ctx, actor, orderID, domain.Complete, audit.ActionOrderCompleted)
}
