package domain

import "time"

// CartAction names a cart mutation kind for the activity audit trail.
type CartAction string

const (
	ActionAdd    CartAction = "add"
	ActionUpdate CartAction = "update"
	ActionRemove CartAction = "remove"
	ActionClear  CartAction = "clear"
)

// CartActivity records a single successful cart mutation.
type CartActivity struct {
	UserID    string
	Action    CartAction
	ProductID string // empty for clear
	Quantity  int    // resulting quantity for add/update, 0 otherwise
	Timestamp time.Time
}
