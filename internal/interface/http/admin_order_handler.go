package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/shoplite-api/internal/application"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/response"
	"github.com/shoplite/shoplite-api/pkg/validation"
)

type AdminOrderHandler struct {
	Svc    *app.AdminService
	Logger *logrus.Logger
}

func NewAdminOrderHandler(svc *app.AdminService, logger *logrus.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{Svc: svc, Logger: logger}
}

// List GET /api/admin/orders
func (h *AdminOrderHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	f := repo.OrderFilter{Status: c.Query("status"), Page: page, PerPage: perPage}
	orders, total, err := h.Svc.ListOrders(c.Request.Context(), f)
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to list orders", nil)
		return
	}
	response.OK(c, http.StatusOK, toOrderViews(orders), "orders", response.NewPage(page, perPage, total))
}

// Get GET /api/admin/orders/:id
func (h *AdminOrderHandler) Get(c *gin.Context) {
	o, err := h.Svc.GetOrder(c.Request.Context(), c.Param("id"))
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

type orderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid shipped canceled"`
}

// ChangeStatus POST /api/admin/orders/:id/status
func (h *AdminOrderHandler) ChangeStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.ChangeOrderStatus(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrOrderNotFound):
			response.Fail[any](c, http.StatusNotFound, "order not found", nil)
		case errors.Is(err, app.ErrBadTransition):
			response.Fail[any](c, http.StatusConflict, "status transition not allowed", nil)
		default:
			response.Fail[any](c, http.StatusInternalServerError, "failed to change order status", nil)
		}
		return
	}
	response.OK(c, http.StatusOK, toOrderView(o), "order status changed", nil)
}
