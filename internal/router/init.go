package router

import (
	app "github.com/shoplite/shoplite-api/internal/application"
	"github.com/shoplite/shoplite-api/internal/container"
	"github.com/shoplite/shoplite-api/internal/infrastructure/cache"
	pginfra "github.com/shoplite/shoplite-api/internal/infrastructure/postgres"
	handlers "github.com/shoplite/shoplite-api/internal/interface/http"
	"github.com/shoplite/shoplite-api/internal/router/modules"
)

// InitModules builds the full dependency graph from the container singletons
// and registers every feature module with the router registry. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	userRepo := pginfra.NewUserRepository(pool)
	productRepo := pginfra.NewProductRepository(pool)
	orderRepo := pginfra.NewOrderRepository(pool)
	activityRepo := pginfra.NewActivityRepository(pool)
	cartStore := cache.NewCartStore(rdb, cfg.CartTTL)

	authSvc := app.NewAuthService(userRepo, container.GetJWT(), rdb, logger, container.GetRabbitPub(), cfg.AppName)
	catalogSvc := app.NewCatalogService(productRepo, logger, rdb, container.GetES(), cfg.ESProductsIndex)
	cartSvc := app.NewCartService(cartStore, productRepo, logger, cfg.LowStockLevel)
	payment := app.NewPaymentSimulator(cfg.PaymentDelay, cfg.PaymentDeclineRate)
	checkoutSvc := app.NewCheckoutService(
		cartSvc, orderRepo, userRepo, payment,
		container.GetRabbitPub(), logger,
		cfg.AppName, cfg.SupportURL, cfg.OrdersURL,
	)
	orderSvc := app.NewOrderService(orderRepo, logger)
	adminSvc := app.NewAdminService(
		productRepo, userRepo, orderRepo, catalogSvc, logger,
		container.GetGCS(), cfg.GCSBucket, cfg.AdminEmail,
	)
	activitySvc := app.NewActivityService(activityRepo)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, logger)
	cartHandler := handlers.NewCartHandler(cartSvc, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.CartTTL)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc, logger)
	orderHandler := handlers.NewOrderHandler(orderSvc, logger)
	adminProducts := handlers.NewAdminProductHandler(adminSvc, logger)
	adminUsers := handlers.NewAdminUserHandler(adminSvc, logger)
	adminOrders := handlers.NewAdminOrderHandler(adminSvc, logger)
	adminActivity := handlers.NewAdminActivityHandler(activitySvc, logger)

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewCatalogModule(catalogHandler))
	r.Add(modules.NewCartModule(cartHandler))
	r.Add(modules.NewCheckoutModule(checkoutHandler, container.GetJWT()))
	r.Add(modules.NewOrderModule(orderHandler, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminProducts, adminUsers, adminOrders, adminActivity, container.GetJWT()))
	r.Add(modules.NewDebugModule())
}
