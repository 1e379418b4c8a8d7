package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/cart"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/events"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/handler"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/repository"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/service"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/pkg/config"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("table", cfg.TableName),
		zap.String("kafka_brokers", cfg.KafkaBrokers),
		zap.Bool("persist_instructions", cfg.PersistInstructions))

	// Initialize components
	dynamoClient, err := repository.NewDynamoDBClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to create DynamoDB client:", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	draftRepo := repository.NewDraftRepository(dynamoClient, cfg.TableName, cfg.PersistInstructions, logger)
	orderRepo := repository.NewOrderRepository(dynamoClient, cfg.TableName)
	claimRepo := repository.NewClaimRepository(dynamoClient, cfg.TableName)
	catalogRepo := repository.NewCatalogRepository(dynamoClient, cfg.TableName)

	carts := cart.NewManager(draftRepo, logger)
	orderService := service.NewOrderService(orderRepo, catalogRepo, producer, carts, logger)
	splitService := service.NewSplitService(orderRepo, catalogRepo, claimRepo, producer, logger)

	cartHandler := handler.NewCartHandler(carts, catalogRepo, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	splitHandler := handler.NewSplitHandler(splitService, logger)

	// Setup Gin Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/cart/initialize", cartHandler.Initialize)
		v1.GET("/cart", cartHandler.GetCart)
		v1.DELETE("/cart", cartHandler.ClearCart)
		v1.POST("/cart/items", cartHandler.AddItem)
		v1.PATCH("/cart/items/:lineId", cartHandler.UpdateQuantity)
		v1.DELETE("/cart/items/:lineId", cartHandler.RemoveItem)
		v1.PUT("/cart/tip", cartHandler.SetTip)
		v1.PUT("/cart/order-type", cartHandler.SetOrderType)
		v1.PUT("/cart/instructions", cartHandler.SetSpecialInstructions)
		v1.POST("/cart/checkout", orderHandler.Checkout)

		v1.GET("/orders/:number", orderHandler.GetOrder)
		v1.GET("/orders/:number/split/units", splitHandler.Units)
		v1.POST("/orders/:number/split/quote", splitHandler.Quote)
		v1.POST("/orders/:number/split/settle", splitHandler.Settle)

		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "healthy",
				"service": "ordering-backend",
				"port":    cfg.Port,
			})
		})
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
