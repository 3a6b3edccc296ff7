package order

import (
	"time"

	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

// Start moves o to in_progress. The start time never precedes the assignment
// time, so a skewed clock cannot break the timestamp ordering.
func Start(o *models.Order, now time.Time) error {
	if err := CanStart(Status(o.Status)); err != nil {
		return err
	}

	if now.Before(o.AssignedAt) {
		now = o.AssignedAt
	}
	o.Status = string(StatusInProgress)
	o.StartedAt = &now
	return nil
}

// Complete moves o to completed, with the same ordering guarantee against
// StartedAt.
func Complete(o *models.Order, now time.Time) error {
	if err := CanComplete(Status(o.Status)); err != nil {
		return err
	}

	if o.StartedAt != nil && now.Before(*o.StartedAt) {
		now = *o.StartedAt
	}
	o.Status = string(StatusCompleted)
	o.CompletedAt = &now
	return nil
}

// WorkedHours is the time between start and completion, zero when either is
// missing.
func WorkedHours(o *models.Order) float64 {
	if o.StartedAt == nil || o.CompletedAt == nil {
		return 0
	}
	return o.CompletedAt.Sub(*o.StartedAt).Hours()
}

// CanActOn reports whether user may transition o: managers always, technicians
// only on their own orders.
func CanActOn(user *models.User, o *models.Order) bool {
	if user == nil {
		return false
	}
	return user.IsManager() || user.ID == o.TechnicianID
}
