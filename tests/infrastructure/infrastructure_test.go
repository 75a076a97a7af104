package infrastructure_test

import (
	"context"
	"testing"

	"github.com/nivaranhq/nivaran/internal/config"
	"github.com/nivaranhq/nivaran/internal/identity"
	"github.com/nivaranhq/nivaran/internal/infrastructure"
	"github.com/nivaranhq/nivaran/pkg/database"
	"github.com/nivaranhq/nivaran/pkg/oracle"
	"github.com/nivaranhq/nivaran/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=nivaranstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/nivaranstore;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "nivaran",
			User:            "nivaran",
			Password:        "nivaran",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "evidence",
			ConnectionString: azuriteConnString,
		},
		Oracle: oracle.Config{
			APIKey:  "test-key",
			Model:   "gpt-4o-mini",
			Timeout: "30s",
		},
		Identity: identity.Config{
			DevToken: "local-dev-token",
		},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Oracle == nil {
		t.Error("Oracle is nil")
	}
	if infra.Identity == nil {
		t.Error("Identity is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	_, err := infrastructure.New(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}
