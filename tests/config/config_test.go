package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nivaranhq/nivaran/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "nivaran"
user = "nivaran"
password = "nivaran"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "evidence"
connection_string = "DefaultEndpointsProtocol=http;AccountName=nivaranstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/nivaranstore;"

[oracle]
api_key = "test-key"
model = "gpt-4o-mini"
vision_model = "gpt-4o"
timeout = "30s"

[identity]
dev_token = "local-dev-token"

[verification]
auto_approve_threshold = 0.85
review_threshold = 0.65

[sentiment]
workers = 8

[intake]
politician_id = "0b821a4e-61a9-4f2e-a3fa-9f0c00b5fe4f"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[verification]
auto_approve_threshold = 0.9
`

// minimalConfig provides the minimum fields required for validation to
// pass: database credentials, a storage connection string, an oracle key,
// and a dev token in place of an OIDC issuer.
const minimalConfig = `
[database]
name = "nivaran"
user = "nivaran"

[storage]
connection_string = "conn"

[oracle]
api_key = "test-key"

[identity]
dev_token = "local-dev-token"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "evidence" {
		t.Errorf("storage container: got %s, want evidence", cfg.Storage.ContainerName)
	}
	if cfg.Oracle.Model != "gpt-4o-mini" {
		t.Errorf("oracle model: got %s, want gpt-4o-mini", cfg.Oracle.Model)
	}
	if cfg.Verification.AutoApproveThreshold != 0.85 {
		t.Errorf("auto_approve_threshold: got %f, want 0.85", cfg.Verification.AutoApproveThreshold)
	}
	if cfg.Sentiment.Workers != 8 {
		t.Errorf("sentiment workers: got %d, want 8", cfg.Sentiment.Workers)
	}
	if cfg.Intake.Politician().String() != "0b821a4e-61a9-4f2e-a3fa-9f0c00b5fe4f" {
		t.Errorf("intake politician: got %s", cfg.Intake.Politician())
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("NIVARAN_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want overlay 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want overlay prodhost", cfg.Database.Host)
	}
	if cfg.Verification.AutoApproveThreshold != 0.9 {
		t.Errorf("auto_approve_threshold: got %f, want overlay 0.9", cfg.Verification.AutoApproveThreshold)
	}
	// Fields absent from the overlay keep their base values.
	if cfg.Database.Name != "nivaran" {
		t.Errorf("db name: got %s, want base nivaran", cfg.Database.Name)
	}
	if cfg.Verification.ReviewThreshold != 0.65 {
		t.Errorf("review_threshold: got %f, want base 0.65", cfg.Verification.ReviewThreshold)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("NIVARAN_DB_HOST", "envhost")
	t.Setenv("NIVARAN_ORACLE_MODEL", "gpt-4o")
	t.Setenv("NIVARAN_DEV_TOKEN", "env-token")
	t.Setenv("NIVARAN_SERVER_PORT", "7070")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Database.Host != "envhost" {
		t.Errorf("db host: got %s, want envhost", cfg.Database.Host)
	}
	if cfg.Oracle.Model != "gpt-4o" {
		t.Errorf("oracle model: got %s, want gpt-4o", cfg.Oracle.Model)
	}
	if cfg.Identity.DevToken != "env-token" {
		t.Errorf("dev token: got %s, want env-token", cfg.Identity.DevToken)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server port: got %d, want 7070", cfg.Server.Port)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("NIVARAN_DB_NAME", "nivaran")
	t.Setenv("NIVARAN_DB_USER", "nivaran")
	t.Setenv("NIVARAN_STORAGE_CONNECTION_STRING", "conn")
	t.Setenv("NIVARAN_ORACLE_API_KEY", "test-key")
	t.Setenv("NIVARAN_DEV_TOKEN", "local-dev-token")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("shutdown_timeout default: got %s, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.Verification.AutoApproveThreshold != 0.8 {
		t.Errorf("auto_approve_threshold default: got %f, want 0.8", cfg.Verification.AutoApproveThreshold)
	}
	if cfg.Verification.ReviewThreshold != 0.6 {
		t.Errorf("review_threshold default: got %f, want 0.6", cfg.Verification.ReviewThreshold)
	}
	if cfg.Sentiment.Workers != 4 {
		t.Errorf("sentiment workers default: got %d, want 4", cfg.Sentiment.Workers)
	}
	if cfg.Sentiment.Weights.OppositionPositive != 0.7 {
		t.Errorf("opposition_positive default: got %f, want 0.7", cfg.Sentiment.Weights.OppositionPositive)
	}
}

func TestLoadMinimalConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Oracle.Timeout != "30s" {
		t.Errorf("oracle timeout default: got %s, want 30s", cfg.Oracle.Timeout)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path default: got %s, want /api", cfg.API.BasePath)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", "not valid toml {{")
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid toml")
	}
}

func TestLoadMissingOracleKey(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", strings.Replace(
		minimalConfig,
		`api_key = "test-key"`,
		"",
		1,
	))
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when oracle api_key is missing")
	}
}

func TestLoadInvalidVerificationThresholds(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig+`
[verification]
auto_approve_threshold = 0.5
review_threshold = 0.9
`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when review threshold exceeds auto-approve threshold")
	}
}

func TestLoadInvalidSentimentWeights(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig+`
[sentiment.weights]
opposition_positive = 0.7
opposition_negative = 0.7
`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when opposition weights do not sum to 1")
	}
}

func TestEnvDefault(t *testing.T) {
	os.Unsetenv("NIVARAN_ENV")
	cfg := &config.Config{}

	if env := cfg.Env(); env != "local" {
		t.Errorf("env: got %s, want local", env)
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	t.Setenv("NIVARAN_ENV", "production")
	cfg := &config.Config{}

	if env := cfg.Env(); env != "production" {
		t.Errorf("env: got %s, want production", env)
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := &config.Config{ShutdownTimeout: "45s"}

	if d := cfg.ShutdownTimeoutDuration(); d != 45*time.Second {
		t.Errorf("shutdown timeout: got %v, want 45s", d)
	}
}

func TestServerAddr(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 9000}

	if addr := cfg.Addr(); addr != "127.0.0.1:9000" {
		t.Errorf("addr: got %s, want 127.0.0.1:9000", addr)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.ServerConfig)
		wantErr bool
	}{
		{"valid defaults", func(c *config.ServerConfig) {}, false},
		{"invalid port", func(c *config.ServerConfig) { c.Port = 70000 }, true},
		{"invalid read timeout", func(c *config.ServerConfig) { c.ReadTimeout = "soon" }, true},
		{"invalid write timeout", func(c *config.ServerConfig) { c.WriteTimeout = "later" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.ServerConfig{}
			tt.mutate(&cfg)

			err := cfg.Finalize()
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	cfg := config.APIConfig{MaxUploadSize: "10MB"}

	if size := cfg.MaxUploadSizeBytes(); size != 10*1024*1024 {
		t.Errorf("max upload size: got %d, want %d", size, 10*1024*1024)
	}
}

func TestMaxUploadSizeFallback(t *testing.T) {
	cfg := config.APIConfig{MaxUploadSize: "a lot"}

	if size := cfg.MaxUploadSizeBytes(); size != 50*1024*1024 {
		t.Errorf("max upload size fallback: got %d, want %d", size, 50*1024*1024)
	}
}
