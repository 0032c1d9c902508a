package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/shoplite-api/internal/container"
	handlers "github.com/shoplite/shoplite-api/internal/interface/http"
	"github.com/shoplite/shoplite-api/internal/interface/middleware"
)

// CartModule exposes the session cart. Carts belong to the browser session
// cookie, not the account, so no auth is required.
type CartModule struct {
	Handler *handlers.CartHandler
}

func NewCartModule(h *handlers.CartHandler) *CartModule {
	return &CartModule{Handler: h}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	cart := rg.Group("/cart", rl)
	{
		cart.GET("", m.Handler.Get)
		cart.DELETE("", m.Handler.Clear)
		cart.POST("/items/:productID", m.Handler.AddItem)
		cart.PUT("/items/:productID", m.Handler.SetItem)
		cart.DELETE("/items/:productID", m.Handler.RemoveItem)
	}
}
