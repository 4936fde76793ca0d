/**
 * @description
 * This is the main entry point for the studio-service. It is responsible for
 * initializing all components of the service, including configuration, the
 * Redis session store, the generative API client, the message broker, the
 * session and generation services, and the HTTP server. It wires everything
 * together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/go-chi/chi/v5 (via internal/api): For HTTP routing.
 * - github.com/redis/go-redis/v9: Redis client for the durable session slots.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages.
 * - pkg/geminiclient: Client for the generative-language API.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/myhandle/studio-service/internal/api"
	"github.com/myhandle/studio-service/internal/app"
	"github.com/myhandle/studio-service/internal/config"
	"github.com/myhandle/studio-service/internal/store"
	"github.com/myhandle/studio-service/pkg/geminiclient"
	"github.com/myhandle/studio-service/pkg/rabbitmq"
)

func main() {
	// Load the optional .env file before reading configuration.
	if err := godotenv.Load(); err != nil {
		log.Println("level=info component=bootstrap msg=\"no .env file found; using environment values\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"generative api key must be configured\" env=GEMINI_API_KEY")
	}

	log.Printf("level=info component=bootstrap msg=\"starting studio-service\" port=%s", cfg.ServerPort)

	// Connect the durable session store. Redis being down degrades to an
	// in-memory store: the service stays usable, durability is lost until
	// the next boot with a reachable Redis.
	var sessionRepo store.SessionRepository
	if cfg.RedisURL == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; accounts will not survive restarts\" env=REDIS_URL")
		sessionRepo = store.NewMemoryRepository()
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"redis url parse failed\" err=%v", parseErr)
		}
		redisClient := redis.NewClient(redisOptions)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr := redisClient.Ping(pingCtx).Err()
		cancelPing()
		if pingErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis ping failed; accounts will not survive restarts\" err=%v", pingErr)
			redisClient.Close()
			sessionRepo = store.NewMemoryRepository()
		} else {
			defer redisClient.Close()
			log.Println("level=info component=bootstrap msg=\"redis connected\"")
			sessionRepo = store.NewRedisRepository(redisClient, cfg.RedisKeyPrefix)
		}
	}

	// Initialize the RabbitMQ producer to publish events. This service only
	// publishes, and runs fine without a broker.
	var eventProducer *rabbitmq.EventProducer
	if cfg.RabbitMQURL == "" {
		log.Println("level=info component=bootstrap msg=\"rabbitmq url missing; event publishing disabled\"")
	} else {
		eventProducer, err = rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; event publishing disabled\" err=%v", err)
			eventProducer = nil
		} else {
			defer eventProducer.Close()
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
		}
	}

	// Initialize the client for the generative-language API.
	geminiClient := geminiclient.NewClient(cfg.GeminiAPIBaseURL, cfg.GeminiAPIKey)

	// Initialize the application services.
	sessionService := app.NewSessionService(sessionRepo, eventProducer, cfg.EventExchange)
	sessionService.Bootstrap(context.Background())

	credentials := app.NewCredentialManager()
	generationService := app.NewGenerationService(geminiClient, app.GenerationModels{
		Text:  cfg.TextModel,
		Image: cfg.ImageModel,
		Video: cfg.VideoModel,
	})

	pollInterval := time.Duration(cfg.VideoPollIntervalSeconds) * time.Second
	videoService := app.NewVideoService(geminiClient, credentials, eventProducer, app.VideoServiceOptions{
		Model:           cfg.VideoModel,
		Resolution:      cfg.VideoResolution,
		PollInterval:    pollInterval,
		MaxPollAttempts: cfg.VideoPollMaxAttempts,
		EventExchange:   cfg.EventExchange,
	})

	// Initialize the API handlers and router. The video route's timeout
	// covers the full poll budget plus the submit and download calls.
	handlers := api.NewStudioHandlers(sessionService, generationService, videoService, credentials)
	videoTimeout := pollInterval*time.Duration(cfg.VideoPollMaxAttempts) + 5*time.Minute
	router := api.StudioRoutes(handlers, videoTimeout)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
