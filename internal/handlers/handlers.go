package handlers

import (
	"KVideo/internal/auth"
	"KVideo/internal/config"
	"KVideo/internal/middleware"
	"KVideo/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	dataService *service.UserDataService,
	resolver *auth.Resolver,
	tokens *auth.TokenService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	// Перехватчик маршрутов: обязан отработать до любого хендлера
	r.Use(middleware.WithAuth(tokens))

	// Handlers
	authHandler := NewAuthHandler(userService, resolver, tokens, logger, config)
	adminHandler := NewAdminHandler(userService, resolver, logger)
	dataHandler := NewUserDataHandler(dataService, resolver, logger)
	configHandler := NewConfigHandler(resolver, logger, config)
	pageHandler := NewPageHandler()

	// Auth routes
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)
	r.Get("/auth/me", authHandler.Me)
	r.Put("/auth/password", authHandler.ChangePassword)

	// Admin routes
	r.Get("/admin/users", adminHandler.ListUsers)
	r.Post("/admin/users", adminHandler.CreateUser)
	r.Put("/admin/users/{id}", adminHandler.UpdateUser)
	r.Delete("/admin/users/{id}", adminHandler.DeleteUser)

	// User data buckets
	r.Get("/user/data", dataHandler.Get)
	r.Put("/user/data", dataHandler.Put)

	// Config
	r.Get("/config", configHandler.Get)

	// Pages
	r.Get("/login", pageHandler.LoginPage)
	r.Get("/", pageHandler.RootPage)
	r.Get("/admin", pageHandler.AdminPage)

	return &Handler{Router: r}
}
