package main

import (
	"net/http"

	"finance-tracker/internal/config"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const maxBodySize = "1M"

type dependencies struct {
	db            *gorm.DB
	auth          services.AuthServiceInterface
	tokens        services.TokenServiceInterface
	blacklist     repositories.BlacklistedTokenRepositoryInterface
	users         services.UserServiceInterface
	categories    services.CategoryServiceInterface
	expenses      services.ExpenseServiceInterface
	subscriptions services.SubscriptionServiceInterface
	dashboard     services.DashboardServiceInterface
	export        services.ExportServiceInterface
	rateLimiter   *middleware.RateLimiter
}

func newRouter(cfg *config.Config, deps dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestMetrics())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.BodyLimit(maxBodySize))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.TraceIDHeader, handlers.OAuthSecretHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader, echo.HeaderContentDisposition},
	}))

	health := handlers.NewHealthCheckHandler(deps.db)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	requireAuth := middleware.RequireAuth(deps.tokens, deps.blacklist)

	authHandler := handlers.NewAuthHandler(deps.auth, cfg.OAuth.SharedSecret)
	auth := api.Group("/auth", deps.rateLimiter.Middleware())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/oauth", authHandler.OAuthLogin)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	userHandler := handlers.NewUserHandler(deps.users)
	users := api.Group("/users/me", requireAuth)
	users.GET("", userHandler.GetMe)
	users.PUT("", userHandler.UpdateMe)
	users.PUT("/password", userHandler.ChangePassword, deps.rateLimiter.Middleware())
	users.GET("/activity", userHandler.GetActivity)

	categoryHandler := handlers.NewCategoryHandler(deps.categories)
	categories := api.Group("/categories", requireAuth)
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenseHandler := handlers.NewExpenseHandler(deps.expenses, deps.dashboard, deps.export)
	expenses := api.Group("/expenses", requireAuth)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/dashboard", expenseHandler.GetDashboard)
	expenses.GET("/export", expenseHandler.ExportExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	subscriptionHandler := handlers.NewSubscriptionHandler(deps.subscriptions)
	subscriptions := api.Group("/subscriptions", requireAuth)
	subscriptions.GET("", subscriptionHandler.ListSubscriptions)
	subscriptions.POST("", subscriptionHandler.CreateSubscription)
	subscriptions.GET("/month", subscriptionHandler.ListForMonth)
	subscriptions.GET("/:id", subscriptionHandler.GetSubscription)
	subscriptions.GET("/:id/occurrences", subscriptionHandler.GetOccurrences)
	subscriptions.PUT("/:id", subscriptionHandler.UpdateSubscription)
	subscriptions.DELETE("/:id", subscriptionHandler.DeleteSubscription)

	if !cfg.IsProduction() {
		devHandler := handlers.NewDevHandler(deps.expenses)
		api.POST("/dev/expenses/generate", devHandler.GenerateExpenses, requireAuth)
	}

	return e
}
