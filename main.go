package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"enb-blast-service/chain"
	"enb-blast-service/handlers"
	"enb-blast-service/models"
	"enb-blast-service/services"
	"enb-blast-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // event batches are small
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.GameSession{},
		&models.ClaimRecord{},
		&models.TaskCompletion{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal("REDIS_URL environment variable not set")
	}
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("invalid REDIS_URL:", err)
	}
	rdb := redis.NewClient(redisOpts)

	// --- On-chain collaborators: read-only client + dedicated signer key ---
	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		log.Fatal("RPC_URL environment variable not set")
	}
	gameContract := os.Getenv("GAME_CONTRACT_ADDRESS")
	if gameContract == "" {
		log.Fatal("GAME_CONTRACT_ADDRESS environment variable not set")
	}
	powerUpContract := os.Getenv("POWERUP_CONTRACT_ADDRESS")
	if powerUpContract == "" {
		log.Fatal("POWERUP_CONTRACT_ADDRESS environment variable not set")
	}

	chainClient, err := chain.NewClient(rpcURL, gameContract, powerUpContract)
	if err != nil {
		log.Fatal("failed to initialize chain client:", err)
	}

	// Fail fast on a missing/garbage signer key instead of at first claim.
	signer, err := chain.NewSigner(os.Getenv("SIGNER_PRIVATE_KEY"))
	if err != nil {
		log.Fatal("failed to initialize claim signer:", err)
	}
	// --- END chain setup ---

	leaderboardService := services.NewLeaderboardService(db, rdb)
	gameService := services.NewGameService(db, leaderboardService)
	claimService := services.NewClaimService(db, chainClient, signer, leaderboardService)
	taskService := services.NewTaskService(db, leaderboardService)
	userService := services.NewUserService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if notifier := workers.NewNotificationClient(db); notifier != nil {
		go workers.PollClaimReminders(ctx, notifier, 15*time.Minute)
		log.Println("✅ Claim reminder polling running (every 15m)")
	} else {
		log.Println("⚠️  NOTIFICATION_SERVICE_URL not set — claim reminders disabled")
	}

	gameService.StartMaintenanceScheduler()

	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupClaimRoutes(app, claimService)
	handlers.SetupTaskRoutes(app, taskService)
	handlers.SetupUserRoutes(app, userService, leaderboardService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Claim signer address: %s", signer.Address().Hex())
	log.Println("✅ Maintenance scheduler running (session sweep + weekly reset)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
