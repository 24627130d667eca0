package router

import (
	"time"

	"github.com/AhmadAdewumi/inventro/internal/config"
	"github.com/AhmadAdewumi/inventro/internal/handler"
	"github.com/AhmadAdewumi/inventro/internal/middleware"
	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"
	"github.com/AhmadAdewumi/inventro/internal/service"
	"github.com/AhmadAdewumi/inventro/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	stocktakeRepo := repository.NewStocktakeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	costHistoryRepo := repository.NewCostHistoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	pricingSvc := service.NewPricingService(promotionRepo)
	saleSvc := service.NewSaleService(orderRepo, variantRepo, customerRepo, ledgerRepo, notificationRepo, pricingSvc, dispatcher)
	refundSvc := service.NewRefundService(orderRepo, variantRepo, ledgerRepo)
	inventorySvc := service.NewInventoryService(variantRepo, ledgerRepo)
	catalogSvc := service.NewCatalogService(productRepo, variantRepo, ledgerRepo)
	procurementSvc := service.NewProcurementService(poRepo, supplierRepo, variantRepo, ledgerRepo, costHistoryRepo, notificationRepo, dispatcher)
	stocktakeSvc := service.NewStocktakeService(stocktakeRepo, variantRepo, ledgerRepo, notificationRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	reportSvc := service.NewReportService(orderRepo, variantRepo)
	storeSvc := service.NewStoreService(settingsRepo, notificationRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	salesH := handler.NewSalesHandler(saleSvc, refundSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	procurementH := handler.NewProcurementHandler(procurementSvc)
	stocktakeH := handler.NewStocktakeHandler(stocktakeSvc)
	customersH := handler.NewCustomersHandler(customerSvc, pricingSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	storeH := handler.NewStoreHandler(storeSvc)
	priceH := handler.NewPriceLookupHandler(variantRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, read-only
	r.GET("/v1/price/:barcode", priceH.GetPriceByBarcode)

	// Protected routes. Roles: cashier, manager, owner — declared per-endpoint.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(model.RoleCashier, model.RoleManager, model.RoleOwner)
	managerUp := middleware.RequireRole(model.RoleManager, model.RoleOwner)
	ownerOnly := middleware.RequireRole(model.RoleOwner)

	v1 := r.Group("/v1", jwtMW)
	{
		// Sales
		v1.POST("/sales", anyStaff, salesH.Checkout)
		v1.GET("/sales", anyStaff, salesH.ListOrders)
		v1.GET("/sales/:id", anyStaff, salesH.GetOrder)
		v1.DELETE("/sales/:id", anyStaff, salesH.DeleteQuote)
		v1.POST("/sales/:id/refund", managerUp, salesH.Refund)

		// Catalog — everyone reads, managers write
		v1.GET("/variants", anyStaff, catalogH.ListVariants)
		v1.GET("/variants/:id", anyStaff, catalogH.GetVariant)
		variants := v1.Group("/variants", managerUp)
		{
			variants.POST("", catalogH.CreateVariant)
			variants.PUT("/:id", catalogH.UpdateVariant)
			variants.DELETE("/:id", catalogH.DeactivateVariant)
			variants.PATCH("/:id/reactivate", catalogH.ReactivateVariant)
		}

		// Inventory
		inv := v1.Group("/inventory", managerUp)
		{
			inv.POST("/adjust", inventoryH.AdjustStock)
			inv.GET("/ledger", inventoryH.LedgerHistory)
			inv.GET("/ledger/:id/verify", inventoryH.VerifyLedger)
			inv.GET("/cost-history/:id", procurementH.CostHistory)
		}

		// Procurement
		proc := v1.Group("/procurement", managerUp)
		{
			proc.POST("/suppliers", procurementH.CreateSupplier)
			proc.GET("/suppliers", procurementH.ListSuppliers)
			proc.DELETE("/suppliers/:id", procurementH.DeactivateSupplier)

			proc.POST("/orders", procurementH.CreatePurchaseOrder)
			proc.GET("/orders", procurementH.ListPurchaseOrders)
			proc.GET("/orders/:id", procurementH.GetPurchaseOrder)
			proc.POST("/orders/:id/place", procurementH.PlacePurchaseOrder)
			proc.POST("/orders/:id/receive", procurementH.ReceivePurchaseOrder)
			proc.POST("/orders/:id/cancel", procurementH.CancelPurchaseOrder)
		}

		// Stocktakes — counting is for everyone, approval for managers
		v1.POST("/stocktakes", managerUp, stocktakeH.Start)
		v1.GET("/stocktakes", anyStaff, stocktakeH.ListSessions)
		v1.GET("/stocktakes/:id", anyStaff, stocktakeH.GetSession)
		v1.POST("/stocktakes/:id/counts", anyStaff, stocktakeH.RecordCount)
		v1.POST("/stocktakes/:id/approve", managerUp, stocktakeH.Approve)
		v1.DELETE("/stocktakes/:id", managerUp, stocktakeH.Discard)

		// Customers & promotions
		v1.POST("/customers", anyStaff, customersH.CreateCustomer)
		v1.GET("/customers", anyStaff, customersH.ListCustomers)
		v1.GET("/customers/:id", anyStaff, customersH.GetCustomer)
		v1.POST("/promotions", managerUp, customersH.CreatePromotion)
		v1.GET("/promotions", anyStaff, customersH.ListPromotions)
		v1.PATCH("/promotions/:id", managerUp, customersH.SetPromotionActive)

		// Reports
		v1.GET("/reports/dashboard", managerUp, reportsH.Dashboard)
		v1.GET("/reports/top-sellers", managerUp, reportsH.TopSellers)

		// Notifications & settings
		v1.GET("/notifications", anyStaff, storeH.ListNotifications)
		v1.PATCH("/notifications/:id/read", anyStaff, storeH.MarkNotificationRead)
		v1.GET("/settings", anyStaff, storeH.GetSettings)
		v1.PUT("/settings", ownerOnly, storeH.UpdateSettings)

		// Users — owner only
		users := v1.Group("/users", ownerOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	return r
}
