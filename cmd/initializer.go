package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"propertyBack/internal/cache"
	"propertyBack/internal/config"
	"propertyBack/internal/handlers"
	"propertyBack/internal/repositories"
	"propertyBack/internal/services"
	"propertyBack/utils"
)

const (
	adminTokenTTL = 24 * time.Hour
	propertyList  = "/properties/"
)

// cacheBackend is a cache store that can also report server-side hit/miss counters.
type cacheBackend interface {
	cache.Store
	cache.StatsReader
}

type application struct {
	errorLog            *log.Logger
	infoLog             *log.Logger
	cfg                 config.Config
	db                  *sql.DB
	cache               cacheBackend
	tokens              *utils.Manager
	propertyHandler     *handlers.PropertyHandler
	cacheMetricsHandler *handlers.CacheMetricsHandler
	healthHandler       *handlers.HealthHandler
	cacheMetricsService *services.CacheMetricsService
}

// appLogger adapts the info/error logger pair to services.Logger.
type appLogger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

func (l appLogger) Infof(format string, args ...interface{}) {
	l.infoLog.Printf(format, args...)
}

func (l appLogger) Errorf(format string, args ...interface{}) {
	l.errorLog.Printf(format, args...)
}

func initializeApp(cfg config.Config, db *sql.DB, store cacheBackend, errorLog, infoLog *log.Logger) *application {
	logger := appLogger{infoLog: infoLog, errorLog: errorLog}

	// Repositories
	propertyRepo := repositories.NewPropertyRepository(db, cfg.Database.Driver)

	// Services
	propertyService := &services.PropertyService{
		PropertyRepo:   propertyRepo,
		Cache:          store,
		Logger:         logger,
		TTL:            cfg.Cache.QueryTTL,
		InvalidateKeys: []string{viewCacheKey(http.MethodGet, propertyList)},
	}
	cacheMetricsService := &services.CacheMetricsService{Stats: store, Logger: logger}

	// Handlers
	propertyHandler := &handlers.PropertyHandler{Service: propertyService}
	cacheMetricsHandler := &handlers.CacheMetricsHandler{Service: cacheMetricsService}
	healthHandler := &handlers.HealthHandler{DB: db, Cache: store}

	var tokens *utils.Manager
	if cfg.Auth.JWTSecret != "" {
		var err error
		if tokens, err = utils.NewManager(cfg.Auth.JWTSecret); err != nil {
			errorLog.Printf("token manager: %v; property write endpoints are disabled", err)
		}
	} else {
		infoLog.Printf("JWT_SECRET is not set; property write endpoints are disabled")
	}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		cfg:                 cfg,
		db:                  db,
		cache:               store,
		tokens:              tokens,
		propertyHandler:     propertyHandler,
		cacheMetricsHandler: cacheMetricsHandler,
		healthHandler:       healthHandler,
		cacheMetricsService: cacheMetricsService,
	}
}

func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Printf("Successfully connected to %s database", driver)
	return db, nil
}

func openCache(cfg config.CacheConfig) cacheBackend {
	switch cfg.Backend {
	case "memcache":
		return cache.NewMemcacheStore(cfg.MemcacheServers...)
	default:
		return cache.NewRedisStore(cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
