package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/shoplite-api/internal/application"
	"github.com/shoplite/shoplite-api/internal/domain/entity"
	"github.com/shoplite/shoplite-api/pkg/response"
)

type OrderHandler struct {
	Svc    *app.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *app.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("userRole") == entity.RoleAdmin
}

// List GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	uid := c.GetString("userID")
	page, perPage := pageParams(c)
	orders, total, err := h.Svc.ListFor(c.Request.Context(), uid, isAdmin(c), c.Query("status"), page, perPage)
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to list orders", nil)
		return
	}
	response.OK(c, http.StatusOK, toOrderViews(orders), "orders", response.NewPage(page, perPage, total))
}

// Get GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	uid := c.GetString("userID")
	o, err := h.Svc.GetFor(c.Request.Context(), c.Param("id"), uid, isAdmin(c))
	if err != nil {
		if errors.Is(err, app.ErrOrderNotFound) {
			response.Fail[any](c, http.StatusNotFound, "order not found", nil)
			return
		}
		response.Fail[any](c, http.StatusInternalServerError, "failed to load order", nil)
		return
	}
	response.OK(c, http.StatusOK, toOrderView(o), "order", nil)
}

// Cancel POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	uid := c.GetString("userID")
	o, err := h.Svc.Cancel(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrOrderNotFound):
			response.Fail[any](c, http.StatusNotFound, "order not found", nil)
		case errors.Is(err, app.ErrNotCancelable):
			response.Fail[any](c, http.StatusConflict, "order can no longer be canceled", nil)
		default:
			response.Fail[any](c, http.StatusInternalServerError, "failed to cancel order", nil)
		}
		return
	}
	response.OK(c, http.StatusOK, toOrderView(o), "order canceled", nil)
}
