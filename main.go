// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront/cache"
	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/events"
	"go-storefront/paypal"
	"go-storefront/routes"
	"go-storefront/store"
	"go-storefront/telemetry"
	"go-storefront/utils"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}

	st, closeStore := openStore(ctx, cfg)

	if cfg.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		st.Products = cache.NewProducts(st.Products, rdb, cfg.Redis.ProductCacheTTL)
		log.Printf("Product cache enabled (ttl %s)", cfg.Redis.ProductCacheTTL)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Printf("Publishing order events to exchange %s", cfg.AMQP.Exchange)
	}

	// Initialize EmailService
	emailService := utils.NewEmailService(newMailer(cfg))

	var verifier controllers.PaymentVerifier
	if cfg.PaypalVerification() {
		verifier = paypal.NewClient(&cfg.Paypal)
		log.Println("PayPal payments are verified server side")
	}

	// Initialize controllers
	orderController := controllers.NewOrderController(st.Orders, st.Users, emailService, publisher, verifier)
	router := routes.NewRouter(routes.Controllers{
		Users:    controllers.NewUserController(st.Users),
		Products: controllers.NewProductController(st.Products),
		Orders:   orderController,
		Config:   &controllers.ConfigController{PaypalClientID: cfg.PaypalClientID()},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.Middleware(serviceName)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Serve at http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	closeStore(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("Tracer shutdown error: %v", err)
	}
}

// openStore connects the configured store driver and returns a closer
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, func(context.Context)) {
	if cfg.StoreDriver == "memory" {
		log.Println("Using in-memory store; data is lost on exit")
		return store.NewMemory(), func(context.Context) {}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Connect to MongoDB
	client, err := utils.ConnectDB(connectCtx, cfg.MongoDB.URL)
	if err != nil {
		log.Fatalf("Not connected to database: %v", err)
	}
	log.Println("Connection is successful")

	db := client.Database(cfg.MongoDB.Database)
	if err := store.EnsureIndexes(connectCtx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	return store.NewMongo(db), func(ctx context.Context) {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("MongoDB disconnect error: %v", err)
		}
	}
}

func newMailer(cfg *config.Config) utils.Mailer {
	switch cfg.Email.Provider {
	case "postmark":
		return utils.NewPostmarkMailer(cfg.PostmarkToken, cfg.Email.Sender)
	case "sendgrid":
		return utils.NewSendgridMailer(cfg.SendgridAPIKey, cfg.Email.Sender)
	default:
		return utils.LogMailer{}
	}
}
