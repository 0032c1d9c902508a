package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/shoplite-api/internal/container"
	handlers "github.com/shoplite/shoplite-api/internal/interface/http"
	"github.com/shoplite/shoplite-api/internal/interface/middleware"
	"github.com/shoplite/shoplite-api/pkg/helpers"
)

// OrderModule wires order history routes. Auth required; admins see all
// orders through the same endpoints.
type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(middleware.Auth(container.GetRedis(), m.JWT))
	orders.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		orders.GET("", m.Handler.List)
		orders.GET("/:id", m.Handler.Get)
		orders.POST("/:id/cancel", m.Handler.Cancel)
	}
}
