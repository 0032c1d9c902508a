package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/shoplite-api/internal/container"
	handlers "github.com/shoplite/shoplite-api/internal/interface/http"
	"github.com/shoplite/shoplite-api/internal/interface/middleware"
)

// CatalogModule exposes the public storefront reads. No auth required.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
}

func NewCatalogModule(h *handlers.CatalogHandler) *CatalogModule {
	return &CatalogModule{Handler: h}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/products", rl, m.Handler.ListProducts)
	rg.GET("/products/:id", rl, m.Handler.GetProduct)
	rg.GET("/categories", rl, m.Handler.ListCategories)
}
