package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/shoplite-api/internal/container"
	handlers "github.com/shoplite/shoplite-api/internal/interface/http"
	"github.com/shoplite/shoplite-api/internal/interface/middleware"
	"github.com/shoplite/shoplite-api/pkg/helpers"
)

// CheckoutModule wires checkout review and submission. Auth required.
type CheckoutModule struct {
	Handler *handlers.CheckoutHandler
	JWT     *helpers.JWTManager
}

func NewCheckoutModule(h *handlers.CheckoutHandler, jwt *helpers.JWTManager) *CheckoutModule {
	return &CheckoutModule{Handler: h, JWT: jwt}
}

func (m *CheckoutModule) Register(rg *gin.RouterGroup) {
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.Auth(container.GetRedis(), m.JWT))
	// submissions hit the payment simulator, keep the limit tight
	checkout.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		checkout.GET("", m.Handler.Review)
		checkout.POST("", m.Handler.Submit)
	}
}
