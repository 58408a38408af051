package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/config"
	"github.com/yeremiapane/personnel-api/controllers"
	"github.com/yeremiapane/personnel-api/middlewares"
	"github.com/yeremiapane/personnel-api/realtime"
	"github.com/yeremiapane/personnel-api/repository"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/utils"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter wires repositories, services and controllers onto a gin engine.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// Forwarded headers are believed only from the configured proxies.
	trusted, err := utils.ParseNetworks(cfg.TrustedProxies)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("ignoring invalid trusted proxies")
		trusted = nil
	}
	proxies := make([]string, 0, len(trusted))
	for _, n := range trusted {
		proxies = append(proxies, n.String())
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		utils.ErrorLogger.WithError(err).Error("set trusted proxies")
	}

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.ForwardedScheme(trusted))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	if cfg.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst).RateLimit())
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	hub := realtime.NewHub()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	directory := services.NewUserDirectory(userRepo)
	reports := services.NewTaskReports(userRepo, taskRepo)
	notifications := services.NewNotificationService(notifRepo, userRepo, hub)
	auth := services.NewAuthService(userRepo, tokens)

	authCtrl := controllers.NewAuthController(auth)
	userCtrl := controllers.NewUserController(directory, reports)
	searchCtrl := controllers.NewUserSearchController(directory)
	notificationCtrl := controllers.NewNotificationController(notifications)
	socketCtrl := controllers.NewNotificationSocketController(notifications, hub, cfg.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter(cfg.LoginRatePerMin).RateLimit())
	{
		public.POST("/register", authCtrl.Register)
		public.POST("/login", authCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(tokens, userRepo))

	// USERS
	api.GET("/users", userCtrl.GetAllUsers)
	api.GET("/users/me", userCtrl.GetProfile)
	api.GET("/users/:id", userCtrl.GetUserByID)
	api.PATCH("/users/:id", userCtrl.UpdateUser)
	api.DELETE("/users/:id", middlewares.RequireStaff(), userCtrl.DeleteUser)
	api.GET("/users/:id/tasks_current", userCtrl.TasksCurrent)
	api.GET("/users/:id/tasks_history", userCtrl.TasksHistory)
	api.GET("/users/:id/tasks_statistics", userCtrl.TasksStatistics)

	// USER SEARCH
	api.GET("/users/search/search_by_experience", searchCtrl.SearchByExperience)
	api.GET("/users/search/search_by_department", searchCtrl.SearchByDepartment)
	api.GET("/users/search/search_by_rank", searchCtrl.SearchByRank)

	// NOTIFICATIONS
	api.GET("/notifications", notificationCtrl.GetAllNotifications)
	api.POST("/notifications", middlewares.RequireStaff(), notificationCtrl.CreateNotification)
	api.GET("/notifications/unread-count", notificationCtrl.UnreadCount)
	api.POST("/notifications/mark_all_read", notificationCtrl.MarkAllRead)
	api.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	api.POST("/notifications/:notif_id/read", notificationCtrl.MarkRead)
	api.PATCH("/notifications/:notif_id", notificationCtrl.UpdateNotification)
	api.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// WebSocket: the token travels in the query string
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware(tokens, userRepo))
	{
		ws.GET("/notifications", socketCtrl.Stream)
	}

	return r
}
