package routes

import (
	"inventory-service/internal/handlers"
	"inventory-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers agrupa los handlers que participan del router.
type Handlers struct {
	Users    *handlers.UserHandler
	Catalog  *handlers.CatalogHandler
	Stock    *handlers.StockHandler
	Requests *handlers.RequestHandler
	Budgets  *handlers.BudgetHandler
	Vehicles *handlers.VehicleHandler
	Export   *handlers.ExportHandler
	Feed     *handlers.FeedHandler
	Health   *middleware.HealthChecker
}

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(router *gin.Engine, h Handlers) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Autenticación
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Users.Login)
		}

		// Usuarios
		users := v1.Group("/users")
		{
			users.POST("", h.Users.CreateUser)
			users.GET("", h.Users.ListUsers)
			users.GET("/:id", h.Users.GetUser)
			users.PUT("/:id", h.Users.UpdateUser)
			users.DELETE("/:id", h.Users.DeleteUser)
		}

		// Sucursales y su stock
		branches := v1.Group("/branches")
		{
			branches.POST("", h.Catalog.CreateBranch)
			branches.GET("", h.Catalog.ListBranches)
			branches.GET("/:id", h.Catalog.GetBranch)
			branches.PUT("/:id", h.Catalog.UpdateBranch)
			branches.DELETE("/:id", h.Catalog.DeleteBranch)

			branches.GET("/:id/items", h.Stock.ListBranchStock)
			branches.GET("/:id/items/low", h.Stock.ListLowStock)
			branches.GET("/:id/items/:itemId", h.Stock.GetStock)
			branches.PUT("/:id/items/:itemId", h.Catalog.UpdateItem)
			branches.DELETE("/:id/items/:itemId", h.Catalog.DeleteItem)
		}

		// Artículos (alta con sucursal en el body)
		items := v1.Group("/items")
		{
			items.POST("", h.Catalog.CreateItem)
		}

		// Libro de movimientos
		movements := v1.Group("/movements")
		{
			movements.POST("", h.Stock.RegisterMovement)
			movements.GET("", h.Stock.ListMovements)
		}

		// Solicitudes de traspaso
		requests := v1.Group("/requests")
		{
			requests.POST("", h.Requests.CreateRequest)
			requests.GET("", h.Requests.ListBranchRequests)
			requests.GET("/pending", h.Requests.ListPending)
			requests.GET("/ws", h.Feed.PendingFeed)
			requests.GET("/:id", h.Requests.GetRequest)
			requests.PUT("/:id/assign", h.Requests.AssignDriver)
			requests.PUT("/:id/claim", h.Requests.ClaimRequest)
			requests.PUT("/:id/eta", h.Requests.UpdateEta)
			requests.PUT("/:id/confirm", h.Requests.ConfirmDelivery)
			requests.DELETE("/:id", h.Requests.DeleteRequest)
		}

		// Presupuestos
		budgets := v1.Group("/budgets")
		{
			budgets.POST("", h.Budgets.CreateBudget)
			budgets.GET("", h.Budgets.ListBudgets)
			budgets.PUT("/:id", h.Budgets.UpdateBudget)
			budgets.DELETE("/:id", h.Budgets.DeleteBudget)
		}

		// Vehículos
		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", h.Vehicles.CreateVehicle)
			vehicles.GET("", h.Vehicles.ListVehicles)
			vehicles.PUT("/:id", h.Vehicles.UpdateVehicle)
			vehicles.DELETE("/:id", h.Vehicles.DeleteVehicle)
		}

		// Export administrativo
		v1.GET("/export", h.Export.Export)
	}

	// Health check (mantener en raíz para compatibilidad)
	router.GET("/health", h.Health.HealthCheck)

	// API info en raíz
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Inventory Service API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": gin.H{
				"health": "/health",
				"api":    "/api/v1",
				"requests": gin.H{
					"create":  "POST /api/v1/requests",
					"pending": "GET /api/v1/requests/pending",
					"assign":  "PUT /api/v1/requests/:id/assign",
					"claim":   "PUT /api/v1/requests/:id/claim",
					"confirm": "PUT /api/v1/requests/:id/confirm",
					"feed":    "GET /api/v1/requests/ws",
				},
				"movements": "POST /api/v1/movements",
				"branches":  "GET /api/v1/branches",
				"export":    "GET /api/v1/export",
			},
		})
	})
}
