package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/config"
	"github.com/sociogram/backend/internal/handler"
	"github.com/sociogram/backend/internal/repository"
	"github.com/sociogram/backend/internal/service"
	"github.com/sociogram/backend/internal/utils"
	"github.com/sociogram/backend/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	tokenManager := utils.NewTokenManager(
		cfg.Token.AccessSecret,
		cfg.Token.RefreshSecret,
		cfg.Token.AccessExpiry.Duration,
		cfg.Token.RefreshExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	sessionService := service.NewSessionService(repos.User, tokenManager, cfg.Security.BCryptCost)
	userService := service.NewUserService(repos.User, cfg.Security.BCryptCost, cfg.Security.PasswordMinEntropy)
	postService := service.NewPostService(repos.Post, repos.User)

	authHandler := handler.NewAuthHandler(sessionService, userService, cfg.Token.RefreshExpiry.Duration)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)

	router := gin.Default()
	router.Use(otelgin.Middleware("sociogram"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, userHandler, postHandler, sessionService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	sessionService service.SessionService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	authRequired := handler.AuthMiddleware(sessionService)
	throttled := handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", throttled, authHandler.Register)
			users.POST("/login", throttled, authHandler.Login)
			users.POST("/refresh-token", authHandler.Refresh)
			users.POST("/logout", authRequired, authHandler.Logout)
			users.POST("/change-password", authRequired, authHandler.ChangePassword)

			users.GET("/profile", authRequired, userHandler.Profile)
			users.PATCH("/update-account", authRequired, userHandler.UpdateAccount)
			users.DELETE("/account", authRequired, userHandler.DeleteAccount)

			users.POST("/:id/follow", authRequired, userHandler.Follow)
			users.POST("/:id/unfollow", authRequired, userHandler.Unfollow)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.List)
			posts.GET("/:id", postHandler.Get)

			posts.POST("", authRequired, postHandler.Create)
			posts.PUT("/:id", authRequired, postHandler.Update)
			posts.DELETE("/:id", authRequired, postHandler.Delete)

			posts.POST("/:id/like", authRequired, postHandler.Like)
			posts.POST("/:id/comment", authRequired, postHandler.Comment)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
