package router

import (
	"time"

	"salonpos/internal/config"
	"salonpos/internal/handler"
	"salonpos/internal/infra"
	"salonpos/internal/middleware"
	"salonpos/internal/repository"
	"salonpos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	notifier := infra.NewNotifier(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	dishRepo := repository.NewDishRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	ledger := service.NewLedgerWriter(itemRepo, movementRepo)
	resolver := service.NewRecipeResolver(dishRepo)
	validator := service.NewStockValidator()

	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(itemRepo, movementRepo, ledger, notifier, cfg)
	catalogSvc := service.NewCatalogService(dishRepo, tableRepo, itemRepo, notifier)
	orderSvc := service.NewOrderService(orderRepo, tableRepo, itemRepo, dishRepo, movementRepo,
		resolver, validator, ledger, notifier, cfg)
	reportSvc := service.NewReportService(orderRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	itemsH := handler.NewItemsHandler(inventorySvc)
	stockH := handler.NewStockHandler(inventorySvc)
	dishesH := handler.NewDishesHandler(catalogSvc)
	tablesH := handler.NewTablesHandler(catalogSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Orders — the service floor. Waiters run tabs; managers can step in.
		v1.POST("/orders", middleware.RequireRole("waiter", "manager", "admin"), ordersH.Open)
		v1.GET("/orders", middleware.RequireRole("waiter", "kitchen", "manager", "admin"), ordersH.List)
		v1.GET("/orders/:id", middleware.RequireRole("waiter", "kitchen", "manager", "admin"), ordersH.Get)
		v1.POST("/orders/:id/items", middleware.RequireRole("waiter", "manager", "admin"), ordersH.AddItem)
		v1.DELETE("/orders/:id/items/:itemId", middleware.RequireRole("waiter", "manager", "admin"), ordersH.RemoveItem)
		v1.POST("/orders/:id/items/:itemId/ready", middleware.RequireRole("kitchen", "manager", "admin"), ordersH.MarkItemReady)
		v1.POST("/orders/:id/close", middleware.RequireRole("waiter", "manager", "admin"), ordersH.Close)

		// Kitchen display
		v1.GET("/kitchen/queue", middleware.RequireRole("kitchen", "manager", "admin"), ordersH.KitchenQueue)

		// Menu — everyone reads; managers write
		v1.GET("/dishes", dishesH.List)
		v1.GET("/dishes/:id", dishesH.Get)
		dishes := v1.Group("/dishes", middleware.RequireRole("manager", "admin"))
		{
			dishes.POST("", dishesH.Create)
			dishes.PUT("/:id", dishesH.Update)
			dishes.DELETE("/:id", dishesH.Archive)
			dishes.PUT("/:id/sheet", dishesH.ReplaceSheet)
		}

		// Dining room
		v1.GET("/tables", tablesH.List)
		v1.POST("/tables/:id/reserve", middleware.RequireRole("waiter", "manager", "admin"), tablesH.Reserve)
		tables := v1.Group("/tables", middleware.RequireRole("manager", "admin"))
		{
			tables.POST("", tablesH.Create)
			tables.PUT("/:id", tablesH.Update)
			tables.DELETE("/:id", tablesH.Delete)
		}

		// Inventory catalog — managers and admins
		items := v1.Group("/items", middleware.RequireRole("manager", "admin"))
		{
			items.POST("", itemsH.Create)
			items.GET("", itemsH.List)
			items.GET("/:id", itemsH.Get)
			items.PUT("/:id", itemsH.Update)
			items.DELETE("/:id", itemsH.Archive)
			items.POST("/:id/restore", itemsH.Restore)
		}

		// Stock ledger operations
		stock := v1.Group("/stock", middleware.RequireRole("manager", "admin"))
		{
			stock.POST("/withdrawals", stockH.Withdraw)
			stock.POST("/entries", stockH.RegisterEntry)
			stock.POST("/adjustments", stockH.Adjust)
			stock.GET("/movements", stockH.Movements)
			stock.GET("/shopping-list", stockH.ShoppingList)
		}

		// Reports
		v1.GET("/reports/revenue", middleware.RequireRole("manager", "admin"), reportsH.Revenue)

		// Users — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.POST("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
