package repository

import (
	"context"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role     string
	IsActive *bool
	Page     int
	PerPage  int
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, f UserFilter) ([]entity.User, int, error)

	// SetActiveWithLog and SetRoleWithLog apply an admin mutation and append
	// the activity entry in the same transaction, so a logged mutation and
	// its log line can never diverge.
	SetActiveWithLog(ctx context.Context, id string, active bool, log *entity.ActivityLog) (*entity.User, error)
	SetRoleWithLog(ctx context.Context, id, role string, log *entity.ActivityLog) (*entity.User, error)
}
