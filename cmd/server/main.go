package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"bookverse/internal/logger"
	"bookverse/internal/recommend"
	"bookverse/internal/response"
	"bookverse/internal/search"
	"bookverse/internal/server"
	"bookverse/internal/storage/catalog"
	"bookverse/internal/storage/favorites"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel    = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	logFormat   = getEnvOrDefault("LOG_FORMAT", "text")
	dbConnStr   = os.Getenv("DATABASE_URL")
	bindAddr    = getEnvOrDefault("BIND_ADDR", ":8080")
	debugMode   = getBoolEnv("DEBUG_MODE")
	corsOrigins = getEnvOrDefault("CORS_ORIGINS", "*")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	err := logger.SetupSLog(lvl, logFormat, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	cfg, err := pgxpool.ParseConfig(dbConnStr)
	if err != nil {
		slog.Error("Failed to parse DATABASE_URL: " + err.Error())
		os.Exit(1)
	}

	cfg.ConnConfig.Tracer = logger.NewPGXTracer()

	pg, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to create postgres pool: " + err.Error())
		os.Exit(1)
	}

	catalogRepo := catalog.NewPGXRepository(pg, slog.Default())
	favoritesRepo := favorites.NewPGXRepository(pg, slog.Default())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(corsOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Mount("/api", server.Handler(
		search.NewEngine(catalogRepo),
		recommend.NewEngine(catalogRepo, favoritesRepo),
		&response.Responder{DebugMode: debugMode},
	))

	slog.Info("listening on " + bindAddr)
	slog.Error("aborting: " + http.ListenAndServe(bindAddr, r).Error())
	os.Exit(1)
}
