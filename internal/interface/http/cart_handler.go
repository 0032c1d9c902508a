package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/shoplite-api/internal/application"
	"github.com/shoplite/shoplite-api/pkg/helpers"
	"github.com/shoplite/shoplite-api/pkg/response"
	"github.com/shoplite/shoplite-api/pkg/validation"
)

type CartHandler struct {
	Svc     *app.CartService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
	TTL     time.Duration
}

func NewCartHandler(svc *app.CartService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, ttl time.Duration) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure), TTL: ttl}
}

// cartID resolves the cart session from the cookie, minting a fresh id (and
// cookie) when the browser has none yet.
func (h *CartHandler) cartID(c *gin.Context) string {
	if id, err := c.Cookie(helpers.CartCookie); err == nil && id != "" {
		if _, pErr := uuid.Parse(id); pErr == nil {
			return id
		}
	}
	id := uuid.NewString()
	h.Cookies.SetCartID(c, id, time.Now().Add(h.TTL))
	return id
}

type addItemRequest struct {
	Qty int `json:"qty" binding:"required,gt=0"`
}

// setQtyRequest uses a pointer so an explicit zero binds: setting qty to 0 (or
// below) removes the line instead of failing validation.
type setQtyRequest struct {
	Qty *int `json:"qty" binding:"required"`
}

// Get GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	sum, err := h.Svc.Summary(c.Request.Context(), h.cartID(c))
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("build cart summary failed")
		}
		response.Fail[any](c, http.StatusInternalServerError, "failed to load cart", nil)
		return
	}
	response.OK(c, http.StatusOK, sum, "cart", nil)
}

// AddItem POST /api/cart/items/:productID
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.Add(c.Request.Context(), h.cartID(c), c.Param("productID"), req.Qty)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	h.respondSummary(c, "item added")
}

// SetItem PUT /api/cart/items/:productID
func (h *CartHandler) SetItem(c *gin.Context) {
	var req setQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.SetQty(c.Request.Context(), h.cartID(c), c.Param("productID"), *req.Qty)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	h.respondSummary(c, "cart updated")
}

// RemoveItem DELETE /api/cart/items/:productID
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.Svc.Remove(c.Request.Context(), h.cartID(c), c.Param("productID")); err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to remove item", nil)
		return
	}
	h.respondSummary(c, "item removed")
}

// Clear DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), h.cartID(c)); err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to clear cart", nil)
		return
	}
	h.respondSummary(c, "cart cleared")
}

func (h *CartHandler) respondSummary(c *gin.Context, msg string) {
	sum, err := h.Svc.Summary(c.Request.Context(), h.cartID(c))
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to load cart", nil)
		return
	}
	response.OK(c, http.StatusOK, sum, msg, nil)
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidQty):
		response.Fail[any](c, http.StatusBadRequest, "quantity must be positive", nil)
	case errors.Is(err, app.ErrProductNotSellable):
		response.Fail[any](c, http.StatusNotFound, "product not available", nil)
	default:
		response.Fail[any](c, http.StatusInternalServerError, "cart operation failed", nil)
	}
}
