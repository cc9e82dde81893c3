package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-raid/config"
	"recipe-raid/handlers"
	"recipe-raid/logger"
	"recipe-raid/models"
	"recipe-raid/services"
	"recipe-raid/utils"
	"recipe-raid/workers"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Must("dev", "").Fatal("invalid configuration", "error", err)
	}

	log := logger.Must(cfg.LogMode, cfg.LogFile)
	defer log.Sync()

	if !cfg.DotEnvLoaded {
		log.Warn("no .env file found, reading environment variables directly")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache services.LeaderboardCache
	if cfg.RedisAddr != "" {
		redisCache := services.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("redis unreachable, leaderboards will not be cached", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = redisCache
			defer redisCache.Close()
		}
	}

	var storage utils.PhotoStorage
	uploadDir := ""
	switch cfg.StorageDriver {
	case "r2":
		storage, err = utils.NewR2Storage(ctx, utils.R2Options{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			AccessKeySecret: cfg.R2.AccessKeySecret,
			Bucket:          cfg.R2.Bucket,
			CDNBaseURL:      cfg.R2.CDNBaseURL,
		})
		if err != nil {
			log.Fatal("failed to initialize R2 client", "error", err)
		}
	default:
		storage, err = utils.NewLocalStorage(cfg.UploadDir, "/uploads")
		if err != nil {
			log.Fatal("failed to initialize local storage", "error", err)
		}
		uploadDir = cfg.UploadDir
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpire)
	authService := services.NewAuthService(db, tokens, log)
	leaderboardService := services.NewLeaderboardService(db, cache, log)

	svc := handlers.Services{
		Auth:        authService,
		Raids:       services.NewRaidService(db, cache, storage, log),
		Bosses:      services.NewBossService(db),
		Teams:       services.NewTeamService(db, log),
		Leaderboard: leaderboardService,
		Ingredients: services.NewIngredientService(db),
		Users:       services.NewUserService(db),
		Tokens:      tokens,
	}

	sched, err := authService.StartPremiumScheduler(cfg.PremiumSweepInterval)
	if err != nil {
		log.Fatal("failed to start scheduler", "error", err)
	}

	if cache != nil {
		workers.NewLeaderboardWarmer(leaderboardService, cfg.LeaderboardWarmInterval, log).Start(ctx)
	}

	app := handlers.NewApp(handlers.AppConfig{
		AllowedOrigins:  cfg.Origins(),
		ServiceToken:    cfg.ServiceToken,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		UploadDir:       uploadDir,
	}, svc, log)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	log.Info("✅ server running", "port", cfg.Port, "storage", cfg.StorageDriver, "cache", cache != nil)

	<-ctx.Done()
	log.Info("shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Warn("scheduler shutdown", "error", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Warn("server shutdown", "error", err)
	}
}
