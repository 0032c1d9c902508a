package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/shoplite-api/internal/application"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/response"
)

type CatalogHandler struct {
	Svc    *app.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *app.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// ListProducts GET /api/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, perPage := pageParams(c)
	f := repo.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		PerPage:  perPage,
	}
	products, total, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("list products failed")
		}
		response.Fail[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.OK(c, http.StatusOK, toProductViews(products), "products", response.NewPage(page, perPage, total))
}

// GetProduct GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrProductNotFound) {
			response.Fail[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		response.Fail[any](c, http.StatusInternalServerError, "failed to load product", nil)
		return
	}
	response.OK(c, http.StatusOK, toProductView(p), "product", nil)
}

// ListCategories GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to list categories", nil)
		return
	}
	response.OK(c, http.StatusOK, toCategoryViews(cats), "categories", nil)
}
