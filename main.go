package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/betterlearn/betterlearn-api/auth"
	"github.com/betterlearn/betterlearn-api/cache"
	"github.com/betterlearn/betterlearn-api/config"
	"github.com/betterlearn/betterlearn-api/generator"
	"github.com/betterlearn/betterlearn-api/handlers"
	"github.com/betterlearn/betterlearn-api/logger"
	"github.com/betterlearn/betterlearn-api/middleware"
	"github.com/betterlearn/betterlearn-api/scheduler"
	"github.com/betterlearn/betterlearn-api/store"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLog, err := logger.New(env.Mode)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer appLog.Sync()

	st, err := openStore(env)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", env.DBDriver, err)
	}
	defer st.Close()

	var cardCache cache.CardCache = cache.Nop{}
	if env.RedisAddr != "" {
		rc, err := cache.NewRedisCardCache(appLog, env.RedisAddr, env.CardCacheTTL)
		if err != nil {
			appLog.Warn("Card cache disabled", "addr", env.RedisAddr, "error", err)
		} else {
			cardCache = rc
		}
	}
	defer cardCache.Close()

	var gen generator.Generator = generator.Placeholder{Count: env.PlaceholderCards}
	if env.GeneratorURL != "" {
		gen = generator.NewHTTPGenerator(env.GeneratorURL, env.GeneratorTimeout)
	}

	sched, err := scheduler.New(scheduler.Options{
		Store:     st,
		Generator: gen,
		Cache:     cardCache,
		Policy:    env.Policy,
		Log:       appLog,

		GenerateTimeout: env.GeneratorTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}

	reviewHandler := &handlers.ReviewHandler{
		Scheduler: sched,
		Log:       appLog.With("component", "http"),
		Timeout:   env.RequestTimeout,
	}

	var handler http.Handler = reviewHandler.Routes()
	if env.AuthEnabled() {
		authMiddleware, err := middleware.EnsureValidToken(auth.TokenConfig{
			Secret:   env.AuthSecret,
			Issuer:   env.AuthIssuer,
			Audience: env.AuthAudience,
		}, appLog, "/healthz")
		if err != nil {
			return err
		}
		handler = authMiddleware(handler)
	}
	handler = middleware.RequestLogger(appLog)(handler)

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID", "Accept", "Origin"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(handler)

	server := &http.Server{
		Addr:              "0.0.0.0:" + env.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info("Listening", "addr", server.Addr, "driver", env.DBDriver, "auth", env.AuthEnabled())
		serveErr <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Shutdown did not drain", "error", err)
	}
	appLog.Info("Stopped")
	return nil
}

func openStore(env config.Environment) (store.Store, error) {
	if env.DBDriver == config.DriverMemory {
		return store.NewMemoryStore(), nil
	}
	db, err := config.Connect(env)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(db), nil
}
