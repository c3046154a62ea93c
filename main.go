package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"season-economy-system/handlers"
	"season-economy-system/middleware"
	"season-economy-system/models"
	"season-economy-system/services"
	"season-economy-system/utils"
	"season-economy-system/workers"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))

	allowedOriginsList := strings.Split(cfg.AllowedOrigins, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token, X-Service-Token, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Season{},
		&models.PlayerSeasonStats{},
		&models.LeaderboardEntry{},
		&models.SeasonReward{},
		&models.SeasonTransaction{},
		&models.EnergyData{},
		&models.ElementalEssences{},
		&models.SeasonPlayer{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Optional redis cache for leaderboard reads.
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️  Redis unreachable at %s, leaderboard cache disabled: %v", cfg.RedisAddr, err)
			cache = nil
		}
	}

	archiver, err := utils.NewR2Archiver()
	if err != nil {
		log.Fatal("failed to initialize R2 archiver:", err)
	}

	energyService := services.NewEnergyService(db)
	essenceService := services.NewEssenceService(db)
	seasonService := services.NewSeasonService(db)
	statsService := services.NewStatsService(db)
	leaderboardService := services.NewLeaderboardService(db, &services.MirrorNameResolver{DB: db}, cache)
	purchaseService := services.NewPurchaseService(db, essenceService, statsService)

	var rewardService *services.RewardService
	if archiver != nil {
		rewardService = services.NewRewardService(db, leaderboardService, archiver)
	} else {
		rewardService = services.NewRewardService(db, leaderboardService, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ProfileServiceURL != "" {
		syncWorker := workers.NewPlayerSyncWorker(db, cfg.ProfileServiceURL, cfg.ProfileServicePath, cfg.ProfileServiceToken)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  PROFILE_SERVICE_URL not set, player name sync disabled, leaderboards use placeholders")
	}

	services.StartSeasonScheduler(seasonService, leaderboardService, rewardService,
		time.Duration(cfg.SnapshotIntervalMins)*time.Minute)

	// ✅ Setup routes: enforced Gateway auth + consistent /s/ prefix
	handlers.SetupEconomyRoutes(app, energyService, essenceService)
	handlers.SetupSeasonRoutes(app, seasonService, statsService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupShopRoutes(app, purchaseService, rewardService)
	handlers.SetupAdminRoutes(app, seasonService, leaderboardService, rewardService, energyService, essenceService)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(services.Registry, promhttp.HandlerOpts{})))

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%d", cfg.Port)
	log.Println("✅ Season scheduler running (snapshots + close sweep)")
	log.Println("✅ GatewayAuthMiddleware enforced globally, all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
