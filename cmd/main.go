package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"propertyBack/internal/config"
	"propertyBack/internal/repositories"
	"propertyBack/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	defaultConfigPath := os.Getenv("CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "config/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to the YAML config file")
	addr := flag.String("addr", "", "HTTP network address (overrides config)")
	issueToken := flag.String("issue-admin-token", "", "Print an admin JWT for the given user id and exit")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		errorLog.Fatal(err)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	if *issueToken != "" {
		tokens, err := utils.NewManager(cfg.Auth.JWTSecret)
		if err != nil {
			errorLog.Fatalf("issue token: %v", err)
		}
		token, err := tokens.NewJWT(*issueToken, "admin", adminTokenTTL)
		if err != nil {
			errorLog.Fatalf("issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	db, err := openDB(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := repositories.EnsureSchema(context.Background(), db, cfg.Database.Driver); err != nil {
			errorLog.Fatal(err)
		}
	}

	store := openCache(cfg.Cache)
	defer store.Close()

	app := initializeApp(cfg, db, store, errorLog, infoLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Cache.MetricsEnabled() {
		reporter, err := startMetricsReporter(cfg.Cache.MetricsSchedule, app.cacheMetricsService, infoLog)
		if err != nil {
			errorLog.Fatal(err)
		}
		defer reporter.Stop()
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		ErrorLog:     errorLog,
		Handler:      addSecurityHeaders(c.Handler(app.routes())),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errorLog.Printf("shutdown: %v", err)
		}
	}()

	infoLog.Printf("Starting server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errorLog.Fatal(err)
	}
	infoLog.Printf("Server stopped")
}
