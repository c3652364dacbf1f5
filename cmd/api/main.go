package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/ilfiscal/fiscal-data-service/internal/config"
	"github.com/ilfiscal/fiscal-data-service/internal/handler"
	"github.com/ilfiscal/fiscal-data-service/internal/integrations/treasury"
	"github.com/ilfiscal/fiscal-data-service/internal/middleware"
	"github.com/ilfiscal/fiscal-data-service/internal/repository"
	"github.com/ilfiscal/fiscal-data-service/internal/service"
	"github.com/ilfiscal/fiscal-data-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	dialect, err := repository.ParseDialect(cfg.DataSource)
	if err != nil {
		logger.Fatalf("Failed to select data source: %v", err)
	}
	conn := cfg.PostgresConn
	if dialect == repository.SQLite {
		conn = cfg.SQLitePath
	}
	db, err := sql.Open(dialect.DriverName(), conn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Infof("Connected to %s data source", dialect)

	// Initialize layers
	repo := repository.NewRepository(db, dialect)
	var mailer *email.Sender
	if cfg.MailEnabled() {
		mailer = email.NewSender(cfg, logger)
	} else {
		logger.Warn("SMTP not configured, report delivery disabled")
	}
	svc := service.NewService(repo, mailer, logger)
	treasuryClient := treasury.NewClient(cfg, logger)
	h := handler.NewHandler(svc, treasuryClient, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	h.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Connection watchdog
	watchdog := cron.New()
	if _, err := watchdog.AddFunc(cfg.ProbeSchedule, func() {
		if err := repo.Ping(); err != nil {
			logger.Errorf("Data source probe failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule connection probe: %v", err)
	}
	watchdog.Start()
	defer watchdog.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      cors.AllowAll().Handler(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
