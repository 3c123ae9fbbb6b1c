package main

import (
	"context"                          // context package is needed for Redis operations
	"tarot_portal/internal/api"        // Custom package for HTTP handlers
	"tarot_portal/internal/config"     // Custom package for configuration
	"tarot_portal/internal/db"         // Custom package for database setup
	"tarot_portal/internal/repository" // Custom package for the account store
	"tarot_portal/internal/service"    // Custom package for account logic
	"tarot_portal/internal/session"    // Custom package for login sessions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine-readable logs in production
	}

	// Refuse to start without a session secret
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	if !cfg.ReadingEnabled() {
		logrus.Warn("AI_API_KEY not set, reading page disabled")
	}

	// Connect to the database
	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	// SQLite files are created on demand, so migrate them in place
	if cfg.DBDriver == config.DriverSQLite {
		if err := db.Migrate(database); err != nil {
			logrus.Fatalf("failed to migrate DB: %v", err)
		}
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	users := repository.NewUserRepository(database)                                                              // Account store
	sessions := session.NewGateway(session.NewRedisStore(redisClient), users, cfg.SessionSecret, cfg.SessionTTL) // Login sessions
	router, err := api.NewRouter(api.Deps{
		Accounts:      service.NewAccountService(users), // Registration and login
		Users:         users,                            // Account store
		Sessions:      sessions,                         // Session gateway
		DB:            database,                         // Health checks
		Redis:         redisClient,                      // Health checks
		AIKey:         cfg.AIKey,                        // Reading page key
		SecureCookies: cfg.IsProd,                       // HTTPS only cookies in production
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := router.Run(":" + cfg.AppPort); err != nil {        // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
