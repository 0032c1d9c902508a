package repository

import (
	"context"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

// ActivityFilter narrows activity log listings.
type ActivityFilter struct {
	AdminID    string
	ActionType string
	TargetType string
	Page       int
	PerPage    int
}

// ActivityRepository reads the append-only activity log. Appends happen in
// the mutating repositories' transactions, never through this interface.
type ActivityRepository interface {
	List(ctx context.Context, f ActivityFilter) ([]entity.ActivityLog, int, error)
	// ListAfter returns up to limit entries with id > afterID in ascending
	// id order. It is the primitive behind the restartable stream view.
	ListAfter(ctx context.Context, afterID int64, limit int) ([]entity.ActivityLog, error)
	LatestID(ctx context.Context) (int64, error)
}
