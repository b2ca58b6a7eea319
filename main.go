package main

import (
	"log"

	"warung-orders/config"
	httpapi "warung-orders/internal/api/http"
	"warung-orders/internal/cart"
	"warung-orders/internal/catalog"
	"warung-orders/internal/checkout"
	"warung-orders/internal/notify"
	"warung-orders/internal/storage"
	"warung-orders/internal/tenant"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	redisClient := config.MustInitRedis()
	defer redisClient.Close()

	cacheKV := storage.NewRedisKV(redisClient)
	cartKV := storage.NewCartKV(redisClient, config.CartTTL())

	kafkaWriter := config.NewKafkaWriter("order-events")
	defer kafkaWriter.Close()

	tenants := tenant.NewResolver(repo, cacheKV)
	catalogSvc := catalog.NewService(repo, cacheKV)
	checkoutSvc := checkout.NewService(
		repo,
		repo,
		repo,
		notify.NewSheetWebhook(config.SheetWebhookURL()),
		storage.NewKafkaPublisher(kafkaWriter),
		checkout.OrderCodeQR{},
	)

	handler := httpapi.NewHandler(tenants, catalogSvc, checkoutSvc, repo, repo, cart.NewSessions(cartKV))
	httpapi.StartServer(":"+config.Port(), httpapi.NewRouter(handler))
}
