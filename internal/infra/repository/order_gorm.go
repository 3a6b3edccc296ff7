package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/maintenance-orders/internal/domain/order"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

var _ domain.Repository = (*OrderGormRepository)(nil)

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *OrderGormRepository) GetEquipment(ctx context.Context, id uint) (*models.Equipment, error) {
	var eq models.Equipment
	if err := r.db.WithContext(ctx).First(&eq, id).Error; err != nil {
		return nil, notFound(err, "get equipment")
	}
	return &eq, nil
}

func (r *OrderGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "get user")
	}
	return &u, nil
}

func (r *OrderGormRepository) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var list []models.Equipment
	if err := r.db.WithContext(ctx).
		Order("area ASC, name ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return list, nil
}

func (r *OrderGormRepository) ListTechnicians(ctx context.Context) ([]models.User, error) {
	var list []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleTechnician).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	return list, nil
}

// --------------------------------------------------
// Orders
// --------------------------------------------------

func (r *OrderGormRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	toUTC(o)
	if err := r.db.WithContext(ctx).Omit("Equipment", "Technician").Create(o).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderGormRepository) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, notFound(err, "get order")
	}
	return &o, nil
}

// ListOrders returns every order oldest assignment first, with equipment and
// technician preloaded. Missing associations stay nil.
func (r *OrderGormRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Equipment").
		Preload("Technician").
		Order("assigned_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

func (r *OrderGormRepository) UpdateOrderStatus(ctx context.Context, o *models.Order, from domain.Status) error {
	if !domain.Status(o.Status).Valid() {
		return fmt.Errorf("update order status: unknown status %q", o.Status)
	}
	toUTC(o)
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", o.ID, string(from)).
		Updates(map[string]any{
			"status":       o.Status,
			"started_at":   o.StartedAt,
			"completed_at": o.CompletedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleState
	}
	return nil
}

func (r *OrderGormRepository) ListCompletedOrders(ctx context.Context, technicianID uint) ([]models.Order, error) {
	var list []models.Order
	if err := r.db.WithContext(ctx).
		Where("technician_id = ? AND status = ?", technicianID, string(domain.StatusCompleted)).
		Order("completed_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list completed orders: %w", err)
	}
	return list, nil
}

// toUTC normalizes the order's timestamps. SQLite keeps times as text with
// their offset, so ordering and range filters only hold when all rows share UTC.
func toUTC(o *models.Order) {
	o.AssignedAt = o.AssignedAt.UTC()
	if o.StartedAt != nil {
		t := o.StartedAt.UTC()
		o.StartedAt = &t
	}
	if o.CompletedAt != nil {
		t := o.CompletedAt.UTC()
		o.CompletedAt = &t
	}
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
