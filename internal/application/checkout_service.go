package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/helpers"
	"github.com/shoplite/shoplite-api/pkg/mailer"
	"github.com/shoplite/shoplite-api/pkg/mailer/templates"
)

var ErrCartEmpty = errors.New("cart is empty")

// deliveryEstimateDays is the flat shipping window quoted when an order is
// placed. Purely informational, nothing schedules against it.
const deliveryEstimateDays = 3

// EstimateDelivery returns the quoted delivery date for an order placed at t.
func EstimateDelivery(t time.Time) time.Time {
	return t.AddDate(0, 0, deliveryEstimateDays)
}

// CheckoutService turns a cart into a paid order. The flow is all or
// nothing: either payment succeeds and one transaction persists the order
// with stock deducted, or nothing changes at all.
type CheckoutService struct {
	Cart    *CartService
	Orders  repo.OrderRepository
	Users   repo.UserRepository
	Payment *PaymentSimulator
	Mail    *helpers.RabbitPublisher
	Logger  *logrus.Logger

	AppName    string
	SupportURL string
	OrdersURL  string
}

func NewCheckoutService(cart *CartService, orders repo.OrderRepository, users repo.UserRepository, payment *PaymentSimulator, mail *helpers.RabbitPublisher, logger *logrus.Logger, appName, supportURL, ordersURL string) *CheckoutService {
	return &CheckoutService{
		Cart:       cart,
		Orders:     orders,
		Users:      users,
		Payment:    payment,
		Mail:       mail,
		Logger:     logger,
		AppName:    appName,
		SupportURL: supportURL,
		OrdersURL:  ordersURL,
	}
}

// Review is the structured checkout preview: the live cart summary plus the
// shipping address on file.
type Review struct {
	Cart     *entity.CartSummary `json:"cart"`
	Shipping ShippingAddress     `json:"shipping"`
}

type ShippingAddress struct {
	Name        string `json:"name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
}

func shippingFrom(u *entity.User) ShippingAddress {
	return ShippingAddress{
		Name:        u.Name,
		AddressLine: u.AddressLine,
		City:        u.City,
		State:       u.State,
		PostalCode:  u.PostalCode,
		Country:     u.Country,
	}
}

func (a ShippingAddress) oneLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.AddressLine, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ReviewFor returns the checkout preview for a user and cart.
func (s *CheckoutService) ReviewFor(ctx context.Context, userID, cartID string) (*Review, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	sum, err := s.Cart.Summary(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &Review{Cart: sum, Shipping: shippingFrom(u)}, nil
}

// Submit places the order:
//  1. empty cart fails immediately;
//  2. requested quantities are prevalidated against current stock so an
//     obviously failing order never reaches payment;
//  3. payment is simulated (delay + decline rate);
//  4. one transaction locks the product rows, revalidates stock, deducts it
//     and inserts the order as paid with frozen line prices;
//  5. the cart is cleared and a confirmation email job is queued.
//
// A decline or a stock failure leaves the cart and the catalog untouched.
func (s *CheckoutService) Submit(ctx context.Context, userID, cartID string) (*entity.Order, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	requested, err := s.Cart.Carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		return nil, ErrCartEmpty
	}

	sum, err := s.Cart.Summary(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(sum.Items) == 0 {
		return nil, ErrCartEmpty
	}
	for _, line := range sum.Items {
		if line.StockAvailable < line.Qty {
			return nil, fmt.Errorf("%w: %s has %d left", repo.ErrInsufficientStock, line.Name, line.StockAvailable)
		}
	}

	if err := s.Payment.Charge(ctx, userID, sum.TotalCents); err != nil {
		if s.Logger != nil && errors.Is(err, ErrPaymentDeclined) {
			s.Logger.WithFields(logrus.Fields{
				"user_id":     userID,
				"total_cents": sum.TotalCents,
			}).Info("payment declined")
		}
		return nil, err
	}

	order, err := s.Orders.PlaceOrder(ctx, userID, requested)
	if err != nil {
		return nil, err
	}

	if cErr := s.Cart.Clear(ctx, cartID); cErr != nil && s.Logger != nil {
		s.Logger.WithError(cErr).WithField("cart_id", cartID).Warn("clear cart after checkout failed")
	}

	s.publishConfirmation(ctx, u, order)

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"order_id":    order.ID,
			"user_id":     userID,
			"total_cents": order.TotalCents,
			"items":       len(order.Items),
		}).Info("order placed")
	}
	return order, nil
}

func (s *CheckoutService) publishConfirmation(ctx context.Context, u *entity.User, o *entity.Order) {
	if s.Mail == nil {
		return
	}
	lines := make([]templates.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, templates.OrderLine{
			Name:      it.ProductName,
			Qty:       it.Qty,
			UnitPrice: FormatCents(it.UnitPriceCents),
			LineTotal: FormatCents(it.SubtotalCents),
		})
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.OrderConfirmation,
		Data: templates.ToMap(templates.EmailData{
			Name:       u.Name,
			Email:      u.Email,
			AppName:    s.AppName,
			SupportURL: s.SupportURL,
			OrderID:    o.ID,
			OrderTotal: FormatCents(o.TotalCents),
			PlacedAt:   o.PlacedAt.UTC().Format("Jan 2, 2006 15:04 MST"),
			Lines:      lines,
			ShipTo:     shippingFrom(u).oneLine(),
			OrdersURL:  s.OrdersURL,
		}),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("publish confirmation email failed")
	}
}

// FormatCents renders integer cents as a dollar string, e.g. 1999 -> "$19.99".
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}
