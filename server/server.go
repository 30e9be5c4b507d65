package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"planner-server/confs"
	"planner-server/handlers"
	httpHandler "planner-server/handlers/http"
	"planner-server/logging"
	"planner-server/metrics"
	"planner-server/repositories"
	"planner-server/usecases"
	"planner-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	app    *gin.Engine
	cfg    *confs.Config
	store  repositories.Store
	hub    *ws.Manager
	logger *slog.Logger
}

// NewServer wires use cases and handlers over store and registers every route.
func NewServer(cfg *confs.Config, store repositories.Store, logger *slog.Logger) *Server {
	s := &Server{
		app:    gin.New(),
		cfg:    cfg,
		store:  store,
		hub:    ws.NewManager(logger),
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	return config
}

func (s *Server) routes() {
	s.app.Use(gin.Recovery(), logging.Gin(s.logger), cors.New(s.corsConfig()))

	if s.cfg.MetricsEnabled {
		m := metrics.New()
		m.RegisterGauge("ws_connections", "Open notification sockets.", func() float64 {
			return float64(s.hub.Connections())
		})
		s.app.Use(m.Middleware())
		s.app.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(s.store.Users(), []byte(s.cfg.SecretKey), s.cfg.SessionTTL)
	taskUseCase := usecases.NewTaskUseCase(s.store.Tasks(), s.logger)
	taskUseCase.SetNotifier(s.hub)
	calendarUseCase := usecases.NewCalendarUseCase(s.store.Events())

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase, s.cfg.SecureCookies)
	taskHandler := httpHandler.NewTaskHandler(taskUseCase)
	calendarHandler := httpHandler.NewCalendarHandler(calendarUseCase)
	notificationHandler := httpHandler.NewNotificationHandler(taskUseCase, calendarUseCase)
	wsHandler := handlers.NewWSHandler(s.hub, taskUseCase, s.logger)

	s.app.POST("/register", authHandler.Register)
	s.app.POST("/login", authHandler.Login)
	s.app.POST("/logout", authHandler.Logout)

	authed := s.app.Group("", httpHandler.RequireUser(authUseCase))
	{
		api := authed.Group("/api")
		{
			api.GET("/me", authHandler.Me)
			api.GET("/dashboard", notificationHandler.GetDashboard)

			tasks := api.Group("/tasks")
			{
				tasks.GET("", taskHandler.GetTasks)
				tasks.POST("", taskHandler.CreateTask)
				tasks.GET("/categories", taskHandler.GetCategories)
				tasks.GET("/:id", taskHandler.GetTask)
				tasks.PUT("/:id", taskHandler.UpdateTask)
				tasks.DELETE("/:id", taskHandler.DeleteTask)
			}
		}

		events := authed.Group("/calendar/events")
		{
			events.GET("", calendarHandler.GetEvents)
			events.POST("", calendarHandler.CreateEvent)
			events.GET("/upcoming", calendarHandler.GetUpcomingEvents)
			events.PUT("/:id", calendarHandler.UpdateEvent)
			events.DELETE("/:id", calendarHandler.DeleteEvent)
		}

		authed.GET("/notification_count", notificationHandler.GetCount)
		authed.GET("/notifications_data", notificationHandler.GetData)
		authed.GET("/notifications", notificationHandler.GetNotifications)
		authed.GET("/ws/notifications", wsHandler.HandleNotifications)
	}
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.app,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	s.hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
