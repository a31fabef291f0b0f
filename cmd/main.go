package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/medmarket/api"
	"github.com/RoyceAzure/lab/medmarket/internal/api/handler"
	"github.com/RoyceAzure/lab/medmarket/internal/api/router"
	"github.com/RoyceAzure/lab/medmarket/internal/config"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/gateway"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/notifier"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/medmarket/internal/service/cart"
	"github.com/RoyceAzure/lab/medmarket/internal/service/catalog"
	"github.com/RoyceAzure/lab/medmarket/internal/service/order"
	"github.com/RoyceAzure/lab/medmarket/internal/service/pricing"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const productSnapshotTTL = 5 * time.Minute

func main() {
	cf := config.GetConfig()

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "medmarket").
		Logger()

	conn, err := db.GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	dao := db.NewDbDao(conn)
	if err := dao.InitMigrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate db")
	}
	sqlStore := db.NewSQLStore(dao)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
		DB:       cf.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	snapshotRepo := redis_repo.NewProductSnapshotRepo(redisClient, productSnapshotTTL)
	productRepo := redis_decorator.NewCacheAsideProductRepo(sqlStore, snapshotRepo)

	kafkaNotifier := notifier.NewKafkaNotifier(strings.Split(cf.KafkaBrokers, ","), cf.NotificationTopic, &logger)
	defer kafkaNotifier.Close()

	tiers, err := pricing.ParseTiers(cf.ShippingTiers)
	if err != nil {
		logger.Fatal().Err(err).Str("raw", cf.ShippingTiers).Msg("invalid SHIPPING_TIERS")
	}
	pricer := pricing.NewCalculator(
		tiers,
		decimal.NewFromFloat(cf.DefaultShippingCost),
		decimal.NewFromFloat(cf.SalesTaxRate),
	)

	paymentGateway := gateway.NewHTTPGateway(cf.GatewayBaseURL, cf.GatewaySecretKey)

	catalogService := catalog.NewService(productRepo)
	cartService := cart.NewService(sqlStore)
	orderService := order.NewService(sqlStore, pricer, paymentGateway, kafkaNotifier, snapshotRepo, &logger)

	server := api.NewServer(
		handler.NewCartHandler(cartService),
		handler.NewOrderHandler(orderService),
		handler.NewWebhookHandler(orderService, cf.GatewayWebhookSecret),
		handler.NewCatalogHandler(catalogService),
	)

	httpServer := &http.Server{
		Addr:    ":" + cf.ServerPort,
		Handler: router.SetupRouter(server, &logger),
	}

	go func() {
		logger.Info().Str("port", cf.ServerPort).Msg("server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited")
}
