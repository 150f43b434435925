package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"motorsportstakes/internal/auth"
	"motorsportstakes/internal/config"
	cronrunner "motorsportstakes/internal/cron"
	"motorsportstakes/internal/db"
	"motorsportstakes/internal/handler"
	"motorsportstakes/internal/logger"
	"motorsportstakes/internal/models"
	gormrepository "motorsportstakes/internal/repository/gorm"
	"motorsportstakes/internal/service"
	"motorsportstakes/internal/valuation"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("MS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	envOnly := false
	if raw := os.Getenv("MS_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	valuationEngine := &valuation.Engine{
		Repo: store,
		Calc: valuation.Calculator{
			GhostPosition: cfg.Game.GhostPosition,
			Window:        cfg.Game.BaselineWindow,
		},
		Logger: logger,
	}

	userSvc := &service.UserService{Repo: store, Tokens: tokens, Logger: logger}
	resultsSvc := &service.ResultsService{Repo: store, Engine: valuationEngine, Logger: logger}
	rosterSvc := &service.RosterService{Repo: store, Logger: logger}
	marketSvc := &service.MarketService{Repo: store, Logger: logger}
	standingsSvc := &service.StandingsService{Repo: store, Logger: logger}
	tableSvc := &service.ValuationTableService{Repo: store}

	if cfg.Seed.ValuationTable {
		if err := tableSvc.SeedDefaults(context.Background()); err != nil {
			logger.Warn("valuation table seed failed", zap.Error(err))
		}
	}
	if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
		if err := seedAdmin(context.Background(), store, cfg.Seed); err != nil {
			logger.Warn("admin seed failed", zap.Error(err))
		}
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	authHandler := &handler.AuthHandler{Users: userSvc, Logger: logger}
	authHandler.Register(engine)
	marketHandler := &handler.MarketHandler{Service: marketSvc, Logger: logger}
	marketHandler.Register(engine)
	racesHandler := &handler.RacesHandler{Repo: store, Logger: logger}
	racesHandler.Register(engine)
	standingsHandler := &handler.StandingsHandler{Service: standingsSvc, Logger: logger}
	standingsHandler.Register(engine)
	rosterHandler := &handler.RosterHandler{Service: rosterSvc, Tokens: tokens, Logger: logger}
	rosterHandler.Register(engine)
	resultsHandler := &handler.ResultsHandler{Service: resultsSvc, Tokens: tokens, Logger: logger}
	resultsHandler.Register(engine)
	tableHandler := &handler.ValuationTableHandler{Service: tableSvc, Tokens: tokens, Logger: logger}
	tableHandler.Register(engine)
	catalogHandler := &handler.AdminCatalogHandler{Repo: store, Tokens: tokens, Logger: logger}
	catalogHandler.Register(engine)

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err = cronRunner.Add(cfg.Cron.StandingsSnapshot, func(ctx context.Context) {
			if err := standingsSvc.Snapshot(ctx); err != nil {
				logger.Warn("standings snapshot failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register standings snapshot failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", zap.Error(err))
	}
}

// seedAdmin makes sure the configured administrator account exists. The
// password is only used on first boot; an existing account is never touched.
func seedAdmin(ctx context.Context, store *gormrepository.Store, seed config.SeedConfig) error {
	email := strings.ToLower(strings.TrimSpace(seed.AdminEmail))
	existing, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(seed.AdminPassword)
	if err != nil {
		return err
	}
	return store.CreateUser(ctx, &models.User{
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: hash,
		IsAdmin:      true,
	})
}
