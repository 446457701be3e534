package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mkotelnikov/webshop/internal/cache"
	"github.com/mkotelnikov/webshop/internal/checkout"
	"github.com/mkotelnikov/webshop/internal/config"
	"github.com/mkotelnikov/webshop/internal/es"
	"github.com/mkotelnikov/webshop/internal/handlers"
	"github.com/mkotelnikov/webshop/internal/logging"
	"github.com/mkotelnikov/webshop/internal/mail"
	authmw "github.com/mkotelnikov/webshop/internal/middleware/auth"
	loggingmw "github.com/mkotelnikov/webshop/internal/middleware/logging"
	"github.com/mkotelnikov/webshop/internal/mykafka"
	httpserver "github.com/mkotelnikov/webshop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}
	indexer := &es.Indexer{Client: esClient, Index: "products"}

	productCache := cache.New(configuration.REDIS_ADDR)
	mailer := mail.New(configuration)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		Auth:            &authmw.Middleware{JWTSecret: jwtSecret},
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, Producer: prod, Mailer: mailer},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, Indexer: indexer, Cache: productCache},
		CartHandler:     &handlers.CartHandler{DB: db, Producer: prod},
		CheckoutHandler: &handlers.CheckoutHandler{Svc: &checkout.Service{DB: db}, Producer: prod},
		OrderHandler:    &handlers.OrderHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "products"},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := productCache.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	log.Println("shutdown complete")
}
