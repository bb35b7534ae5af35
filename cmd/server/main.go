package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"barrier_registry/registry/schema"
	"barrier_registry/registry/services"

	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serverEnv struct {
	// Exactly one of DatabaseUri (postgres) or SqlitePath (embedded variant)
	// must be provided.
	DatabaseUri string `env:"DATABASE_URI"`
	SqlitePath  string `env:"SQLITE_PATH"`

	LogDir     string `env:"LOG_DIR"`
	CorsOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
}

func loadEnvFile(envFile string) {
	slog.Info(fmt.Sprintf("loading env from file %v", envFile))
	err := godotenv.Load(envFile)
	if err != nil {
		log.Fatalf("error loading .env file '%v': %v", envFile, err)
	}
}

func loadEnv() serverEnv {
	cfg := serverEnv{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error loading env variables: %v", err)
	}

	if (cfg.DatabaseUri == "") == (cfg.SqlitePath == "") {
		log.Fatal("Must specify exactly one of DATABASE_URI or SQLITE_PATH")
	}

	return cfg
}

func (cfg *serverEnv) postgresDsn() string {
	parts, err := url.Parse(cfg.DatabaseUri)
	if err != nil {
		log.Fatalf("error parsing db uri: %v", err)
	}
	pwd, _ := parts.User.Password()
	dbname := strings.TrimPrefix(parts.Path, "/")
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v", parts.Hostname(), parts.User.Username(), pwd, dbname, parts.Port())
}

func (cfg *serverEnv) dialector() gorm.Dialector {
	if cfg.SqlitePath != "" {
		return sqlite.Open(cfg.SqlitePath)
	}
	return postgres.Open(cfg.postgresDsn())
}

func initLogging(logFile *os.File) {
	log.SetFlags(log.Lshortfile | log.Ltime | log.Ldate)
	if logFile != nil {
		log.SetOutput(io.MultiWriter(logFile, os.Stderr))
		slog.Info("logging initialized", "log_file", logFile.Name())
	}
}

func initDb(dialector gorm.Dialector) *gorm.DB {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening database connection: %v", err)
	}

	err = db.AutoMigrate(schema.AllModels()...)
	if err != nil {
		log.Fatalf("error migrating db schema: %v", err)
	}

	return db
}

func main() {
	envFile := flag.String("env", "", "File to load env variables from. If not specified will just load them from the environment variables already defined.")
	port := flag.Int("port", 8000, "Port to run server on")

	flag.Parse()

	if *envFile != "" {
		loadEnvFile(*envFile)
	}
	cfg := loadEnv()

	var logFile *os.File
	if cfg.LogDir != "" {
		err := os.MkdirAll(cfg.LogDir, 0777)
		if err != nil {
			log.Fatalf("error creating log dir: %v", err)
		}

		logFile, err = os.OpenFile(filepath.Join(cfg.LogDir, "barrier_registry.log"), os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer logFile.Close()
	}

	initLogging(logFile)

	db := initDb(cfg.dialector())

	registry := services.NewRegistry(db)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.CorsOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Mount("/", registry.Routes())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: r,
	}

	/* srv.Shutdown stops the listener without interrupting in-flight requests,
	and the deferred calls (log file, db pool) run after it returns. */
	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutdown signal received")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("HTTP server Shutdown", "err", err)
		}
		close(idleConnsClosed)
	}()

	slog.Info("starting server", "port", *port)
	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen and serve returned error: %v", err)
	}

	<-idleConnsClosed

	sqlDb, err := db.DB()
	if err == nil {
		sqlDb.Close()
	}
}
