package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/shoplite-api/internal/container"
	handlers "github.com/shoplite/shoplite-api/internal/interface/http"
	"github.com/shoplite/shoplite-api/internal/interface/middleware"
	"github.com/shoplite/shoplite-api/pkg/helpers"
)

// AdminModule groups every dashboard route behind Auth + AdminOnly, so a
// non-admin request is rejected before any handler runs.
type AdminModule struct {
	Products *handlers.AdminProductHandler
	Users    *handlers.AdminUserHandler
	Orders   *handlers.AdminOrderHandler
	Activity *handlers.AdminActivityHandler
	JWT      *helpers.JWTManager
}

func NewAdminModule(products *handlers.AdminProductHandler, users *handlers.AdminUserHandler, orders *handlers.AdminOrderHandler, activity *handlers.AdminActivityHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Products: products, Users: users, Orders: orders, Activity: activity, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.AdminOnly())
	admin.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/products", m.Products.List)
		admin.POST("/products", m.Products.Create)
		admin.PUT("/products/:id", m.Products.Update)
		admin.POST("/products/:id/archive", m.Products.Archive)
		admin.POST("/products/:id/image", m.Products.UploadImage)

		admin.GET("/users", m.Users.List)
		admin.POST("/users/:id/toggle-active", m.Users.ToggleActive)
		admin.POST("/users/:id/role", m.Users.SetRole)

		admin.GET("/orders", m.Orders.List)
		admin.GET("/orders/:id", m.Orders.Get)
		admin.POST("/orders/:id/status", m.Orders.ChangeStatus)

		admin.GET("/activity", m.Activity.List)
		admin.GET("/activity/stream", m.Activity.Stream)
	}
}
