package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/harshitmangtani02/aitf/internal/api/http"
	"github.com/harshitmangtani02/aitf/internal/chat"
	"github.com/harshitmangtani02/aitf/internal/config"
	"github.com/harshitmangtani02/aitf/internal/llm"
	"github.com/harshitmangtani02/aitf/internal/session"
	"github.com/harshitmangtani02/aitf/internal/weather/openmeteo"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Session store. Redis is optional; the in-memory store is the default
	// and gets a periodic janitor sweep so expired sessions do not pile up.
	storeOpts := []session.StoreOption{session.WithTTL(cfg.SessionTTL)}
	if cfg.SessionStore == session.StoreTypeRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		storeOpts = append(storeOpts, session.WithRedisClient(rdb))
	}
	sessions, err := session.NewStore(cfg.SessionStore, storeOpts...)
	if err != nil {
		log.Fatalf("failed to create session store: %v", err)
	}
	defer sessions.Close()

	if sweeper, ok := sessions.(session.Sweeper); ok {
		janitor := session.NewJanitor(sweeper, cfg.SweepInterval)
		if err := janitor.Start(); err != nil {
			log.Fatalf("failed to start session janitor: %v", err)
		}
		defer janitor.Stop()
	}

	// Shared HTTP client for outbound weather calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := llm.New(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.HTTPTimeout,
	})

	meteo := openmeteo.NewClient(openmeteo.Config{
		HTTPClient: httpClient,
	})

	service := chat.NewService(provider, meteo, sessions)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "aitf",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "aitf",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
