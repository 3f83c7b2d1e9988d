package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/summitwealth/ledger"
	"github.com/summitwealth/ledger/httpapi"
	"github.com/summitwealth/ledger/inmem"
	"github.com/summitwealth/ledger/logrus"
	"github.com/summitwealth/ledger/postgres"
	"github.com/summitwealth/ledger/pubsub"
	"github.com/summitwealth/ledger/simulator"
)

func main() {
	ctx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancelCtx()

	config, err := readConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "could not read config: [%v]", err)
		os.Exit(1)
	}

	logger := logrus.ConfigureStandardLogger(
		config.Logging.Format,
		config.Logging.Level,
	)

	store, err := createStore(ctx, logger, &config.Database)
	if err != nil {
		logger.Fatalf("could not create ledger store: [%v]", err)
	}

	events := createEventService(ctx, logger, &config.PubSub)

	seed := config.Pricing.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	prices := simulator.NewPriceSource(seed)

	references := ledger.NewReferenceGenerator()

	accounts := ledger.NewAccountService(store)
	transfers := ledger.NewTransferService(store, references, events)
	trading := ledger.NewTradingService(store, references, events)
	wealth := ledger.NewWealthService(store, prices)
	stockAdmin := ledger.NewStockAdminService(store)

	server := httpapi.NewServer(
		&httpapi.Config{Port: config.Server.Port},
		logger,
		accounts,
		transfers,
		trading,
		wealth,
		stockAdmin,
	)

	if err := server.Run(ctx); err != nil {
		logger.Fatalf("could not run http server: [%v]", err)
	}
}

func createStore(
	ctx context.Context,
	logger ledger.Logger,
	config *Database,
) (ledger.Store, error) {
	switch config.Driver {
	case "postgres":
		return connectPostgres(ctx, logger, config)
	case "inmem":
		logger.Warningf("using in-memory store; data will not survive restart")
		return seededInmemStore(logger)
	}

	return nil, fmt.Errorf("unknown database driver: [%v]", config.Driver)
}

func connectPostgres(
	ctx context.Context,
	logger ledger.Logger,
	config *Database,
) (ledger.Store, error) {
	postgresConfig := &postgres.Config{
		Address:      config.Address,
		User:         config.User,
		Password:     config.Password,
		Name:         config.Name,
		SSLMode:      config.SSLMode,
		MigrationDir: config.MigrationDir,
	}

	if err := postgres.RunMigration(logger, postgresConfig); err != nil {
		return nil, fmt.Errorf(
			"could not run postgres migration: [%v]",
			err,
		)
	}

	client, err := postgres.NewClient(ctx, postgresConfig)
	if err != nil {
		return nil, fmt.Errorf(
			"could not create postgres client: [%v]",
			err,
		)
	}

	return postgres.NewStore(client), nil
}

// seededInmemStore pre-registers a demo user so the API is usable out of
// the box with the in-memory driver. User registration itself is owned by
// an external identity system.
func seededInmemStore(logger ledger.Logger) (ledger.Store, error) {
	store := inmem.NewStore()

	demoUser := &ledger.User{
		ID:        uuid.New(),
		Email:     "demo@summitwealth.io",
		FullName:  "Demo User",
		CreatedAt: time.Now(),
	}

	if err := store.Users().CreateUser(demoUser); err != nil {
		return nil, fmt.Errorf("could not seed demo user: [%v]", err)
	}

	logger.Infof("seeded demo user [%v]", demoUser.Email)

	return store, nil
}

func createEventService(
	ctx context.Context,
	logger ledger.Logger,
	config *PubSub,
) ledger.EventService {
	if !config.Enabled {
		return nil
	}

	client, err := pubsub.NewClient(
		ctx,
		config.ProjectID,
		config.NotificationsTopic,
	)
	if err != nil {
		logger.Fatalf("could not create pubsub client: [%v]", err)
	}

	return pubsub.NewEventService(client, logger)
}
