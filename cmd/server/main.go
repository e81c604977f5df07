package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"carlot/docs"
	"carlot/internal/auth"
	"carlot/internal/cache"
	"carlot/internal/config"
	"carlot/internal/db"
	"carlot/internal/handler"
	"carlot/internal/model"
	"carlot/internal/repository"
	"carlot/internal/router"
	"carlot/internal/service"
)

// @title Car Lot API
// @version 1.0
// @description Car inventory CRUD with username/secret registration and bearer tokens.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description The raw token returned by /register or /log-in, without a scheme prefix.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, cfg.MaxOpenConns)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping car and user tables...")
		for _, table := range []interface{}{&model.Car{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
	}

	if err := gormDB.AutoMigrate(&model.Car{}, &model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "carlot:")
	defer cacheClient.Close()

	pool := db.NewPool(gormDB, db.SessionOptions{SQLMode: cfg.SQLMode, TimeZone: cfg.TimeZone})

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	carRepo := repository.NewCarRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	carService := service.NewCarService(carRepo, cacheClient, cfg.CarsCacheTTL)
	authService := service.NewAuthService(userRepo, tokens, tokenStore)

	router.Register(
		e,
		cfg,
		pool,
		tokens,
		tokenStore,
		handler.NewCarHandler(carService),
		handler.NewAuthHandler(authService),
		handler.NewProbeHandler(pool),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
