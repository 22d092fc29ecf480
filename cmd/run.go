package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"settler/config"
	"settler/database"
	"settler/events"
	"settler/ingest"
	"settler/observability"
	"settler/repository"
	"settler/resolver"
	"settler/server"
	"settler/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting settler...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus and metrics
	eventBus := events.NewBus()
	metrics := observability.NewMetrics()
	metrics.Subscribe(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	escrowService := service.NewEscrowService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory)
	transfers := resolver.NewRPCTransferInitiator(cfg.RPCEndpoints, cfg.ContractAccountID)
	withdrawalService := service.NewWithdrawalService(uowFactory, transfers)
	oracleService := service.NewOracleService(uowFactory, cfg.ContractAccountID)
	statsService := service.NewStatsService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize the resolve client with the configured transport
	var transport resolver.Transport
	var endpoints []string
	switch cfg.ResolveTransport {
	case "rpc":
		transport = resolver.NewRPCTransport(cfg.ResolverAccountID, cfg.ResolverSigningKey)
		endpoints = cfg.RPCEndpoints
	default:
		transport = resolver.NewServiceTransport(settlementService, oracleService)
		endpoints = []string{"local"}
	}
	resolveClient := resolver.NewClient(endpoints, transport, cfg.ResolveTimeout, cfg.RateLimitBackoff, metrics)
	log.Printf("Resolve client using %s transport", cfg.ResolveTransport)

	// Optionally start the NATS outcome feed
	var natsClient *ingest.NATSClient
	if cfg.NATSURL != "" {
		log.Println("Connecting to NATS...")
		natsClient = ingest.NewNATSClient(cfg.NATSURL)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := natsClient.EnsureOutcomeStream(); err != nil {
			return fmt.Errorf("failed to ensure outcome stream: %w", err)
		}
		subscriber := ingest.NewOutcomeSubscriber(natsClient, resolveClient)
		if err := subscriber.Start(ctx); err != nil {
			return fmt.Errorf("failed to start outcome subscriber: %w", err)
		}
		log.Println("Outcome subscriber running")
	}

	// Start the HTTP gateway
	rpcServer := server.NewRPCServer(escrowService, settlementService, withdrawalService, oracleService, statsService)
	gateway := server.NewGateway(resolveClient, statsService, oracleService, rpcServer)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: gateway.Router(),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Gateway listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	log.Printf("Settler is running in %s mode...", cfg.Environment)
	select {
	case err := <-serverErr:
		return fmt.Errorf("gateway failed: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down gateway: %v", err)
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
