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

const maxImageBytes = 5 << 20 // 5 MiB

type AdminProductHandler struct {
	Svc    *app.AdminService
	Logger *logrus.Logger
}

func NewAdminProductHandler(svc *app.AdminService, logger *logrus.Logger) *AdminProductHandler {
	return &AdminProductHandler{Svc: svc, Logger: logger}
}

type productRequest struct {
	SKU         string `json:"sku" binding:"required,sku"`
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"max=5000"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	StockQty    int    `json:"stock_qty" binding:"gte=0"`
	Category    string `json:"category" binding:"max=120"`
}

// List GET /api/admin/products
func (h *AdminProductHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	f := repo.ProductFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		PerPage:  perPage,
	}
	products, total, err := h.Svc.ListProducts(c.Request.Context(), f)
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.OK(c, http.StatusOK, toProductViews(products), "products", response.NewPage(page, perPage, total))
}

// Create POST /api/admin/products
func (h *AdminProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreateProduct(c.Request.Context(), c.GetString("userID"), app.ProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		StockQty:    req.StockQty,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateSKU) {
			response.Fail[any](c, http.StatusConflict, "sku already exists", nil)
			return
		}
		response.Fail[any](c, http.StatusInternalServerError, "failed to create product", nil)
		return
	}
	response.OK(c, http.StatusCreated, toProductView(p), "product created", nil)
}

// Update PUT /api/admin/products/:id
func (h *AdminProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdateProduct(c.Request.Context(), c.GetString("userID"), c.Param("id"), app.ProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		StockQty:    req.StockQty,
		Category:    req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProductNotFound):
			response.Fail[any](c, http.StatusNotFound, "product not found", nil)
		case errors.Is(err, repo.ErrDuplicateSKU):
			response.Fail[any](c, http.StatusConflict, "sku already exists", nil)
		default:
			response.Fail[any](c, http.StatusInternalServerError, "failed to update product", nil)
		}
		return
	}
	response.OK(c, http.StatusOK, toProductView(p), "product updated", nil)
}

// Archive POST /api/admin/products/:id/archive
func (h *AdminProductHandler) Archive(c *gin.Context) {
	p, err := h.Svc.ArchiveProduct(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrProductNotFound) {
			response.Fail[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		response.Fail[any](c, http.StatusInternalServerError, "failed to archive product", nil)
		return
	}
	response.OK(c, http.StatusOK, toProductView(p), "product archived", nil)
}

// UploadImage POST /api/admin/products/:id/image (multipart field "image")
func (h *AdminProductHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Fail[any](c, http.StatusBadRequest, "image file required", nil)
		return
	}
	if fh.Size > maxImageBytes {
		response.Fail[any](c, http.StatusRequestEntityTooLarge, "image too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail[any](c, http.StatusBadRequest, "failed to read image", nil)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	p, err := h.Svc.UploadProductImage(c.Request.Context(), c.GetString("userID"), c.Param("id"), f, fh.Filename, contentType)
	if err != nil {
		if errors.Is(err, app.ErrProductNotFound) {
			response.Fail[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("product_id", c.Param("id")).Error("product image upload failed")
		}
		response.Fail[any](c, http.StatusInternalServerError, "failed to upload image", nil)
		return
	}
	response.OK(c, http.StatusOK, toProductView(p), "product image set", nil)
}
