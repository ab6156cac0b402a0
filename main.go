package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"exchange-campus/internal/db"
	"exchange-campus/internal/handlers"
	"exchange-campus/internal/middleware"
	"exchange-campus/internal/observability"
	"exchange-campus/internal/rabbitmq"
	"exchange-campus/internal/repositories"
	"exchange-campus/internal/telemetry"
)

func main() {
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), "exchange-campus", getEnv("OTLP_ENDPOINT", ""))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(getEnv("AMQP_URL", ""), getEnv("AMQP_EXCHANGE", "campus.events"))
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	emitter := telemetry.NewEventEmitter(publisher, "exchange-campus", getEnv("ENVIRONMENT", "development"))

	userRepo := repositories.NewUserRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	productRepo := repositories.NewProductRepo(database)
	reviewRepo := repositories.NewReviewRepo(database)

	authHandler := handlers.NewAuthHandler(userRepo, emitter)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, emitter)
	productHandler := handlers.NewProductHandler(productRepo, userRepo, emitter)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, userRepo, productRepo, emitter)

	router := gin.Default()
	router.Use(otelgin.Middleware("exchange-campus"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.HandleMethodNotAllowed = true
	router.NoRoute(handlers.NoRoute)
	router.NoMethod(handlers.NoMethod)

	authMiddleware := middleware.AuthMiddleware()

	api := router.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/users/me", authMiddleware, authHandler.Me)

	api.GET("/messages", authMiddleware, messageHandler.ListMessages)
	api.POST("/messages", authMiddleware, messageHandler.SendMessage)
	api.GET("/conversations", authMiddleware, messageHandler.ListConversations)

	api.GET("/products", productHandler.List)
	api.POST("/products", authMiddleware, productHandler.Create)
	api.GET("/products/:id", productHandler.Get)
	api.PUT("/products/:id", authMiddleware, productHandler.Update)
	api.DELETE("/products/:id", authMiddleware, productHandler.Delete)

	api.GET("/reviews", reviewHandler.List)
	api.POST("/reviews", authMiddleware, reviewHandler.Create)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
