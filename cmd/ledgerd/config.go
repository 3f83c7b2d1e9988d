package main

import (
	"github.com/sherifabdlnaby/configuro"
)

// Config values can be set using either environment variables with `CONFIG_`
// prefix or config.yml file placed in working directory.
// See https://github.com/sherifabdlnaby/configuro.
type Config struct {
	Logging  Logging
	Database Database
	Server   Server
	Pricing  Pricing
	PubSub   PubSub
}

type Logging struct {
	Level  string
	Format string
}

type Database struct {
	// Driver selects the ledger store: "postgres" or "inmem". The inmem
	// driver keeps everything in process memory and is meant for local
	// runs only.
	Driver       string
	Address      string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MigrationDir string
}

type Server struct {
	Port int
}

type Pricing struct {
	// Seed for the simulated asset price walk. Zero means seed from the
	// current time.
	Seed int64
}

type PubSub struct {
	Enabled            bool
	ProjectID          string
	NotificationsTopic string
}

func readConfig() (*Config, error) {
	loader, err := configuro.NewConfig()
	if err != nil {
		return nil, err
	}

	// Default config values.
	config := &Config{
		Logging: Logging{
			Level: "info",
		},
		Database: Database{
			Driver:       "postgres",
			Address:      "localhost:5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "postgres",
			SSLMode:      "disable",
			MigrationDir: "postgres/migrations",
		},
		Server: Server{
			Port: 8080,
		},
		PubSub: PubSub{
			NotificationsTopic: "notifications",
		},
	}

	err = loader.Load(config)
	if err != nil {
		return nil, err
	}

	err = loader.Validate(config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
