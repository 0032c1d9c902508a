package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/shoplite-api/internal/application"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/helpers"
	"github.com/shoplite/shoplite-api/pkg/response"
)

type CheckoutHandler struct {
	Svc    *app.CheckoutService
	Logger *logrus.Logger
}

func NewCheckoutHandler(svc *app.CheckoutService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc, Logger: logger}
}

func cartIDFromCookie(c *gin.Context) string {
	if id, err := c.Cookie(helpers.CartCookie); err == nil && id != "" {
		if _, pErr := uuid.Parse(id); pErr == nil {
			return id
		}
	}
	return ""
}

// Review GET /api/checkout
func (h *CheckoutHandler) Review(c *gin.Context) {
	uid := c.GetString("userID")
	rev, err := h.Svc.ReviewFor(c.Request.Context(), uid, cartIDFromCookie(c))
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to build checkout review", nil)
		return
	}
	response.OK(c, http.StatusOK, rev, "checkout review", nil)
}

// Submit POST /api/checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	uid := c.GetString("userID")
	order, err := h.Svc.Submit(c.Request.Context(), uid, cartIDFromCookie(c))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrCartEmpty):
			response.Fail[any](c, http.StatusBadRequest, "cart is empty", nil)
		case errors.Is(err, repo.ErrInsufficientStock):
			response.Fail[any](c, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, repo.ErrProductUnavailable):
			response.Fail[any](c, http.StatusConflict, "a product in the cart is no longer available", nil)
		case errors.Is(err, app.ErrPaymentDeclined):
			response.Fail[any](c, http.StatusPaymentRequired, "payment declined, please try again", nil)
		default:
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("user_id", uid).Error("checkout failed")
			}
			response.Fail[any](c, http.StatusInternalServerError, "checkout failed", nil)
		}
		return
	}
	response.OK(c, http.StatusCreated, placedOrderView{
		orderView:        toOrderView(order),
		DeliveryEstimate: app.EstimateDelivery(order.PlacedAt),
	}, "order placed", nil)
}
