package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotCancelable = errors.New("order can no longer be canceled")
)

// OrderService serves order history for customers and admins.
type OrderService struct {
	Orders repo.OrderRepository
	Logger *logrus.Logger
}

func NewOrderService(orders repo.OrderRepository, logger *logrus.Logger) *OrderService {
	return &OrderService{Orders: orders, Logger: logger}
}

// ListFor returns the caller's own orders; admins see every order and may
// additionally filter by status.
func (s *OrderService) ListFor(ctx context.Context, userID string, isAdmin bool, status string, page, perPage int) ([]entity.Order, int, error) {
	f := repo.OrderFilter{Status: status, Page: page, PerPage: perPage}
	if !isAdmin {
		f.UserID = userID
		f.Status = "" // status filter is an admin affordance
	}
	return s.Orders.List(ctx, f)
}

// GetFor returns one order, enforcing ownership for non-admins. A foreign
// order is reported as not found rather than forbidden so order ids are not
// probeable.
func (s *OrderService) GetFor(ctx context.Context, orderID, userID string, isAdmin bool) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// Cancel cancels the caller's own pending order and restores its stock.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	o, err := s.Orders.CancelByOwner(ctx, orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, repo.ErrInvalidTransition):
			return nil, ErrNotCancelable
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"order_id": o.ID,
			"user_id":  userID,
		}).Info("order canceled by owner")
	}
	return o, nil
}
