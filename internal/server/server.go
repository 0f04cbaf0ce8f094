package server

import (
	"context"
	"net/http"

	"basho/internal/auth"
	"basho/internal/booking"
	"basho/internal/config"
	"basho/internal/email"
	"basho/internal/notification"
	"basho/internal/payment"
	"basho/internal/reconcile"
	"basho/internal/user"
	"basho/internal/workshop"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, gateway payment.Gateway) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	workshopRepo := workshop.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	notifRepo := notification.NewRepository(db)
	reconcileRepo := reconcile.NewRepository(db)
	userRepo := user.NewRepository(db)

	bookingService := booking.NewService(
		bookingRepo, workshopRepo, notifRepo, reconcileRepo,
		gateway, emailService, cfg,
	)

	userHandler := user.NewHandler(userRepo, cfg.JWTSecret)
	workshopHandler := workshop.NewHandler(workshopRepo)
	bookingHandler := booking.NewHandler(bookingService)
	notifHandler := notification.NewHandler(notifRepo)
	reconcileHandler := reconcile.NewHandler(reconcileRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	router.GET("/workshops", workshopHandler.ListWorkshops)
	router.GET("/workshops/:workshopID", workshopHandler.GetWorkshop)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/workshop-orders", bookingHandler.CreateOrder)
		protected.POST("/workshop-payments/verify", bookingHandler.VerifyPayment)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.GET("/bookings/:bookingID", bookingHandler.GetBooking)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.POST("/workshops", workshopHandler.CreateWorkshop)
		admin.POST("/workshops/:workshopID/slots", workshopHandler.CreateTimeSlot)
		admin.GET("/workshops/:workshopID/bookings", bookingHandler.ListBookingsByWorkshop)
		admin.GET("/notifications", notifHandler.ListNotifications)
		admin.POST("/notifications/:notificationID/read", notifHandler.MarkNotificationRead)
		admin.GET("/reconciliations", reconcileHandler.ListOpenItems)
		admin.POST("/reconciliations/:itemID/resolve", reconcileHandler.ResolveItem)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{router: router}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
