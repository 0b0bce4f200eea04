package main

import (
	"KVideo/internal/auth"
	"KVideo/internal/config"
	"KVideo/internal/handlers"
	"KVideo/internal/middleware"
	"KVideo/internal/repo"
	"KVideo/internal/service"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	if cfg.AuthSecret == config.DefaultAuthSecret {
		sugar.Warnw("AUTH_SECRET is not set, using insecure default")
	}

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	dataRepo := repo.NewUserDataRepository(gormDB)

	userService := service.NewUserService(userRepo, dataRepo)
	dataService := service.NewUserDataService(dataRepo)

	resolver := auth.NewResolver(userRepo)
	tokens := auth.NewTokenService(cfg.AuthSecret)

	h := handlers.NewHandler(userService, dataService, resolver, tokens, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
