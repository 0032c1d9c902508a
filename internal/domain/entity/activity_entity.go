package entity

import "time"

// Action and target types recorded in the activity log.
const (
	ActionProductCreate  = "product_create"
	ActionProductEdit    = "product_edit"
	ActionProductArchive = "product_archive"
	ActionProductImage   = "product_image"
	ActionUserToggle     = "user_toggle_active"
	ActionUserSetRole    = "user_set_role"
	ActionOrderStatus    = "order_change_status"

	TargetProduct = "Product"
	TargetUser    = "User"
	TargetOrder   = "Order"
)

// ActivityLog is one admin action: who did what to which record. Entries are
// append-only; the bigserial ID gives the log a strict, resumable order.
type ActivityLog struct {
	ID         int64
	AdminID    string
	AdminEmail string // joined in for display
	ActionType string
	TargetType string
	TargetID   string
	Details    map[string]any
	CreatedAt  time.Time
}
