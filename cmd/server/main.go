package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	goredislib "github.com/redis/go-redis/v9"

	"github.com/riteshkumar/account-ledger/internal/events"
	eventskafka "github.com/riteshkumar/account-ledger/internal/events/kafka"
	"github.com/riteshkumar/account-ledger/internal/handler"
	"github.com/riteshkumar/account-ledger/internal/lock"
	"github.com/riteshkumar/account-ledger/internal/repository"
	"github.com/riteshkumar/account-ledger/internal/service"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	ServerPort string
	Storage    string
	RedisAddr  string
	Brokers    string
}

func main() {
	// Initialise logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration; a .env file is optional
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}
	config := loadConfig()

	// Initialise repositories
	userRepo, accountRepo, transactionRepo, closeDB, err := buildRepositories(config, logger)
	if err != nil {
		logger.Error("failed to initialise storage", "error", err.Error())
		os.Exit(1)
	}
	defer closeDB()

	// Initialise the account lock provider
	locker := buildLocker(config, logger)

	// Initialise the event publisher
	publisher := buildPublisher(config, logger)

	// Initialise services
	accountService := service.NewAccountService(userRepo, accountRepo, logger)
	transactionService := service.NewTransactionService(userRepo, accountRepo, transactionRepo, publisher, logger)

	// Initialise handlers
	accountHandler := handler.NewAccountHandler(accountService, logger)
	transactionHandler := handler.NewTransactionHandler(transactionService, locker, logger)

	// Setup router
	router := mux.NewRouter()

	// Register routes
	accountHandler.RegisterRoutes(router)
	transactionHandler.RegisterRoutes(router)

	// Add health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Add middleware for logging
	router.Use(loggingMiddleware(logger))

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + config.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a go routine
	go func() {
		logger.Info("starting server on port " + config.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err.Error())
	}

	logger.Info("server exited gracefully")
}

// loads config from environment variables
func loadConfig() Config {
	return Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "account_ledger"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Storage:    getEnv("STORAGE", "postgres"),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		Brokers:    getEnv("KAFKA_BROKERS", ""),
	}
}

// getEnv fetches environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// buildRepositories wires the configured storage backend: Postgres by
// default, or the in-memory stores when STORAGE=memory.
func buildRepositories(cfg Config, logger *slog.Logger) (repository.UserRepository, repository.AccountRepository, repository.TransactionRepository, func(), error) {
	if cfg.Storage == "memory" {
		logger.Info("using in-memory storage")
		return repository.NewMemoryUserRepository(),
			repository.NewMemoryAccountRepository(),
			repository.NewMemoryTransactionRepository(),
			func() {}, nil
	}

	db, err := connectDB(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger.Info("connected to database successfully")

	return repository.NewUserRepository(db),
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		func() { db.Close() }, nil
}

// buildLocker wires the Redis-backed lock service when REDIS_ADDR is set,
// falling back to in-process locking for single-instance deployments.
func buildLocker(cfg Config, logger *slog.Logger) lock.Locker {
	if cfg.RedisAddr == "" {
		logger.Info("using in-process account locks")
		return lock.NewMemoryLockService(5 * time.Second)
	}

	client := goredislib.NewClient(&goredislib.Options{Addr: cfg.RedisAddr})
	logger.Info("using redis account locks", "addr", cfg.RedisAddr)
	return lock.NewRedisLockService(client, lock.DefaultOptions(), logger)
}

func buildPublisher(cfg Config, logger *slog.Logger) events.Publisher {
	if cfg.Brokers == "" {
		return events.NoopPublisher{}
	}
	logger.Info("publishing transaction events to kafka", "brokers", cfg.Brokers)
	return eventskafka.NewPublisher(strings.Split(cfg.Brokers, ","))
}

// connectDB establishes a connection to the Postgres database
func connectDB(cfg Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// loggingMiddleware logs incoming HTTP requests
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
