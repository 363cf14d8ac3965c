package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/controllers"
	"github.com/pandawok/reservas-backend/middlewares"
	"github.com/pandawok/reservas-backend/services"
	"gorm.io/gorm"
)

// SetupRouter wires every endpoint. Guest-facing routes (reservation
// create, availability, action links) stay public; everything staff
// touches sits behind the auth middleware.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	// Registered before any route: gin freezes each route's handler
	// chain at registration time, so a limiter added after the groups
	// would never run.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	clientSvc := services.NewClientService(db)
	blockSvc := services.NewBlockService(db)
	availabilitySvc := services.NewAvailabilityService(db)
	mailer := services.NewMailerFromEnv()
	reservationSvc := services.NewReservationService(db, clientSvc, blockSvc, mailer)

	reservationCtrl := controllers.NewReservationController(db, reservationSvc)
	clientCtrl := controllers.NewClientController(db, clientSvc)
	tableCtrl := controllers.NewTableController(db)
	salonCtrl := controllers.NewSalonController(db)
	horarioCtrl := controllers.NewHorarioController(db, availabilitySvc)
	blockCtrl := controllers.NewBlockController(db, blockSvc)
	waitingCtrl := controllers.NewWaitingListController(db)
	tagCtrl := controllers.NewTagController(db)
	userCtrl := controllers.NewUserController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// Auth: login is rate limited hard, registration needs an admin.
	auth := api.Group("/auth")
	auth.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)
	auth.POST("/register",
		middlewares.AuthMiddleware(),
		middlewares.RequireRole("administrador"),
		userCtrl.Register)

	// Public guest surface.
	api.POST("/reservas", reservationCtrl.CreateReservation)
	api.GET("/reservas/accion/:token", reservationCtrl.ConsumeActionToken)
	api.GET("/horarios/horarios-disponibles", horarioCtrl.GetAvailableSlots)
	api.GET("/salones", salonCtrl.GetAllSalones)

	// Staff surface.
	staff := api.Group("")
	staff.Use(middlewares.AuthMiddleware())
	{
		reservas := staff.Group("/reservas")
		{
			reservas.GET("", reservationCtrl.GetAllReservations)
			reservas.GET("/byDate", reservationCtrl.GetReservationsByDate)
			reservas.GET("/mesa/:mesa_id", reservationCtrl.GetReservationsByTable)
			reservas.GET("/cliente/:cliente_id/historial", reservationCtrl.GetClientHistory)
			reservas.GET("/:id", reservationCtrl.GetReservationByID)
			reservas.POST("/walk-in", reservationCtrl.CreateWalkIn)
			reservas.PUT("/:id", reservationCtrl.UpdateReservation)
			reservas.PATCH("/:id/mesa", reservationCtrl.AssignTable)
			reservas.PATCH("/:id/sentar", reservationCtrl.SeatReservation)
			reservas.PATCH("/:id/estado", reservationCtrl.UpdateReservationStatus)
			reservas.DELETE("/:id", reservationCtrl.DeleteReservation)
		}

		clients := staff.Group("/clients")
		{
			clients.GET("", clientCtrl.GetAllClients)
			clients.GET("/:id", clientCtrl.GetClientByID)
			clients.POST("", clientCtrl.CreateClient)
			clients.PUT("/:id", clientCtrl.UpdateClient)
			clients.DELETE("/:id", clientCtrl.DeleteClient)
		}

		mesas := staff.Group("/mesas")
		{
			mesas.GET("/salon/:salon_id/mesas", tableCtrl.GetTablesBySalon)
			mesas.POST("", tableCtrl.CreateTable)
			mesas.PUT("/:id", tableCtrl.UpdateTable)
			mesas.PATCH("/:id/posicion", tableCtrl.UpdateTablePosition)
			mesas.DELETE("/:id", tableCtrl.DeleteTable)

			bloqueos := mesas.Group("/bloqueos")
			{
				bloqueos.POST("", blockCtrl.CreateBlock)
				bloqueos.GET("/mesa/:mesa_id", blockCtrl.GetBlocksByTable)
				bloqueos.GET("/salon/:salon_id", blockCtrl.GetBlocksBySalon)
				bloqueos.DELETE("/:id", blockCtrl.RemoveBlock)
			}
		}

		salones := staff.Group("/salones")
		{
			salones.GET("/:id", salonCtrl.GetSalonByID)
			salones.POST("", salonCtrl.CreateSalon)
			salones.PUT("/:id", salonCtrl.UpdateSalon)
		}

		staff.GET("/horarios", horarioCtrl.GetAllSlots)

		waiting := staff.Group("/waiting-list")
		{
			waiting.GET("", waitingCtrl.GetWaitingList)
			waiting.POST("", waitingCtrl.CreateWaitingEntry)
			waiting.PUT("/:id", waitingCtrl.UpdateWaitingEntry)
			waiting.DELETE("/:id", waitingCtrl.DeleteWaitingEntry)
		}

		tags := staff.Group("/tags")
		{
			tags.GET("", tagCtrl.GetAllTags)
			tags.POST("", tagCtrl.CreateTag)
			tags.DELETE("/:id", tagCtrl.DeleteTag)
		}

		users := staff.Group("/users")
		users.Use(middlewares.RequireRole("administrador"))
		{
			users.GET("", userCtrl.GetAllUsers)
			users.GET("/:id", userCtrl.GetUserByID)
		}
	}

	return r
}
