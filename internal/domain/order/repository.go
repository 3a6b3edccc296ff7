package order

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleState means the row changed status between read and update.
	ErrStaleState = errors.New("order status changed concurrently")
)

type Repository interface {
	// -------- Lookups --------
	GetEquipment(ctx context.Context, id uint) (*models.Equipment, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	ListTechnicians(ctx context.Context) ([]models.User, error)

	// -------- Orders --------
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)

	// UpdateOrderStatus persists o only if its stored status is still from.
	UpdateOrderStatus(ctx context.Context, o *models.Order, from Status) error

	ListCompletedOrders(ctx context.Context, technicianID uint) ([]models.Order, error)
}
