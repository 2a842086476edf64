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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aidosk/shopapi/internal/config"
	"github.com/aidosk/shopapi/internal/es"
	"github.com/aidosk/shopapi/internal/handlers"
	"github.com/aidosk/shopapi/internal/logging"
	loggingmw "github.com/aidosk/shopapi/internal/middleware/logging"
	"github.com/aidosk/shopapi/internal/models"
	"github.com/aidosk/shopapi/internal/mykafka"
	"github.com/aidosk/shopapi/internal/service"
	"github.com/aidosk/shopapi/internal/tokens"
	httpserver "github.com/aidosk/shopapi/internal/transport/http"
	"github.com/aidosk/shopapi/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := database.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	signer, err := tokens.NewSigner(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		log.Fatal(err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	}

	var searchHandler *handlers.SearchHandler
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
	}

	userSvc := &service.UserService{DB: database, Signer: signer, AccessTTL: cfg.AccessTTL}
	orderSvc := &service.OrderService{DB: database}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             database,
		Signer:         signer,
		AuthHandler:    &handlers.AuthHandler{Users: userSvc, Producer: producer},
		OrderHandler:   &handlers.OrderHandler{Orders: orderSvc, Producer: producer},
		ProductHandler: &handlers.ProductHandler{DB: database, Producer: producer},
		SearchHandler:  searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
