package router

import (
	"context"

	"notifyhub/config"
	"notifyhub/internal/handler"
	"notifyhub/internal/middleware"
	"notifyhub/internal/repository"
	"notifyhub/internal/service"
	"notifyhub/internal/ws"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Setup wires repositories, the live hub, services and handlers into a gin engine. The returned hub
// is the single registry shared by the WebSocket endpoint and the notification service.
func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB) (*gin.Engine, *ws.Hub) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go limiter.Run(cfg.RateLimit.Window, ctx.Done())
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	itemRepo := repository.NewItemRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(&cfg.JWT, userRepo)
	fcmSvc := service.NewFCMService(ctx, cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Info("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Warn("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Info("[FCM] Push notifications disabled: set NOTIFYHUB_FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, hub, fcmSvc)
	itemSvc := service.NewItemService(itemRepo, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	meHandler := handler.NewMeHandler(authSvc)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	itemHandler := handler.NewItemHandler(itemSvc)
	presenceHandler := handler.NewPresenceHandler(hub)

	authMw := middleware.AuthRequired(&cfg.JWT)
	userMw := middleware.LoadUser(authSvc)

	r.GET("/health", presenceHandler.Health)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		me := api.Group("/users/me")
		me.Use(authMw, userMw)
		{
			me.GET("", meHandler.GetProfile)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw, userMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.GET("/:id", notificationHandler.Get)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		items := api.Group("/items")
		items.Use(authMw, userMw)
		{
			items.POST("", itemHandler.Create)
			items.GET("", itemHandler.List)
			items.GET("/:id", itemHandler.Get)
			items.PUT("/:id", itemHandler.Update)
			items.DELETE("/:id", itemHandler.Delete)
			items.POST("/:id/like", itemHandler.Like)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, userMw, middleware.SuperuserRequired())
		{
			admin.GET("/presence/:id", presenceHandler.UserPresence)
		}
	}

	r.GET("/ws/notifications", ws.ServeNotifications(&cfg.JWT, cfg.WebSocket, hub))

	return r, hub
}
