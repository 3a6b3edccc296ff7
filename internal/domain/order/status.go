package order

import "github.com/BruksfildServices01/maintenance-orders/internal/httperr"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func InitialStatus() Status {
	return StatusPending
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanStart reports whether an order in current may move to in_progress.
func CanStart(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// CanComplete reports whether an order in current may move to completed.
func CanComplete(current Status) error {
	if current != StatusInProgress {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}
