package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/jwt"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

// ----------------- Tests for printBuildInfo -----------------

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Set build info variables
	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2026-10-15"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	// Check if all expected strings are present
	if !contains(output, "Version: v1.0.0") ||
		!contains(output, "Commit: abcd1234") ||
		!contains(output, "Build: 2026-10-15") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

// ----------------- Tests for parseConfig -----------------

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	// Application
	if cfg.AppHost != "localhost" || cfg.AppPort != "8080" || cfg.LogLevel != "info" ||
		cfg.GRPCHealthPort != "50051" || cfg.Store != storeMemory {
		t.Errorf("unexpected app config: %+v", cfg)
	}

	// PostgreSQL
	if cfg.PGHost != "localhost" || cfg.PGPort != 5432 || cfg.PGUser != "user" || cfg.PGPassword != "password" ||
		cfg.PGDB != "database" || cfg.PGMaxOpenConns != 16 || cfg.PGMaxIdleConns != 8 {
		t.Errorf("unexpected postgres config")
	}

	// Redis and Kafka are off unless configured
	if cfg.RedisHost != "" || cfg.RedisPort != 6379 || cfg.RedisExpSecond != 60 {
		t.Errorf("unexpected redis config")
	}
	if len(cfg.KafkaBrokers) != 0 || cfg.KafkaLedgerTopic != "ledger-events" || cfg.KafkaNotificationTopic != "notifications" {
		t.Errorf("unexpected kafka config")
	}

	// Settlement
	if cfg.PlatformFeeBPS != 1000 || cfg.CommissionWindowDays != 90 ||
		cfg.WithdrawalMode != services.WithdrawalModeDirect || cfg.WithdrawalMinAmount != 100000 {
		t.Errorf("unexpected settlement config")
	}
	if cfg.SpendingLimits != (models.SpendingLimits{}) {
		t.Errorf("expected unlimited spending by default, got %+v", cfg.SpendingLimits)
	}
	if cfg.AutoReleaseSchedule != "@every 5m" || cfg.AutoReleaseBatchSize != 100 || cfg.AutoReleaseTimeout != 4*time.Minute {
		t.Errorf("unexpected auto-release config")
	}

	// JWT and rate limit
	if cfg.JWTSecretKey != "my_super_secret_key" || cfg.JWTExpSecond != 3600 {
		t.Errorf("unexpected jwt config")
	}
	if cfg.RateLimit != 30 || cfg.RateLimitPeriod != time.Minute {
		t.Errorf("unexpected rate limit config")
	}
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv()
	os.Setenv("APP_HOST", "127.0.0.1")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_LOG_LEVEL", "debug")
	os.Setenv("STORE", "postgres")

	os.Setenv("POSTGRES_HOST", "pg.example.com")
	os.Setenv("POSTGRES_PORT", "5433")

	os.Setenv("REDIS_HOST", "redis.example.com")
	os.Setenv("REDIS_EXP_SECOND", "120")

	os.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	os.Setenv("PLATFORM_FEE_BPS", "750")
	os.Setenv("WITHDRAWAL_MODE", "approval")
	os.Setenv("SPEND_LIMIT_DAILY", "500000")

	os.Setenv("JWT_SECRET_KEY", "supersecret")
	os.Setenv("JWT_EXP_SECOND", "300")

	cfg, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	if cfg.AppHost != "127.0.0.1" || cfg.AppPort != "9090" || cfg.LogLevel != "debug" || cfg.Store != storePostgres {
		t.Errorf("unexpected app config")
	}
	if cfg.PGHost != "pg.example.com" || cfg.PGPort != 5433 {
		t.Errorf("unexpected postgres config")
	}
	if cfg.RedisHost != "redis.example.com" || cfg.RedisExpSecond != 120 {
		t.Errorf("unexpected redis config")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("unexpected kafka brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.PlatformFeeBPS != 750 || cfg.WithdrawalMode != services.WithdrawalModeApproval || cfg.SpendingLimits.Daily != 500000 {
		t.Errorf("unexpected settlement config")
	}
	if cfg.JWTSecretKey != "supersecret" || cfg.JWTExpSecond != 300 {
		t.Errorf("unexpected jwt config")
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad_port", "POSTGRES_PORT", "not-a-number"},
		{"bad_store", "STORE", "sqlite"},
		{"bad_withdrawal_mode", "WITHDRAWAL_MODE", "manual"},
		{"bad_fee", "PLATFORM_FEE_BPS", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv()
			os.Setenv(tt.key, tt.val)

			if _, err := parseConfig("nonexistent.env"); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

// ------------------ Run with in-memory storage ------------------

func TestRun_MemoryStore(t *testing.T) {
	resetEnv()
	cfg, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatal(err)
	}
	cfg.AppHost = "127.0.0.1"
	cfg.AppPort = "18086"
	cfg.GRPCHealthPort = "15051"
	cfg.LogLevel = "debug"
	cfg.JWTSecretKey = "testsecret"

	testCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(testCtx, cfg) }()

	token, err := jwt.New(jwt.WithSecretKey("testsecret")).Generate(context.Background(), "u1", jwt.RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	// Wait for the server and read the caller's wallet
	var body struct {
		Wallet models.Wallet `json:"wallet"`
	}
	deadline := time.Now().Add(3 * time.Second)
	for {
		req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:18086/wallet", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			err = json.NewDecoder(resp.Body).Decode(&body)
			resp.Body.Close()
			if err != nil {
				t.Fatal(err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	if body.Wallet.UserID != "u1" || body.Wallet.AvailableBalance != 0 || !body.Wallet.IsActive {
		t.Errorf("unexpected wallet: %+v", body.Wallet)
	}

	// Booking routes need a service or admin role
	req, _ := http.NewRequest(http.MethodPost, "http://127.0.0.1:18086/bookings/b1/release", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for user role, got %d", resp.StatusCode)
	}

	select {
	case <-time.After(6 * time.Second):
		t.Fatal("test timed out")
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected run to succeed, got error: %v", err)
		}
	}
}

// ------------------ Full integration test ------------------
func TestRun_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	// ------------------ Postgres container ------------------
	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "user"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	if err != nil {
		t.Fatal(err)
	}
	defer pgContainer.Terminate(ctx)

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	// ------------------ Redis container ------------------
	redisReq := testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: redisReq, Started: true})
	if err != nil {
		t.Fatal(err)
	}
	defer redisContainer.Terminate(ctx)

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	// ------------------ Run ------------------
	resetEnv()
	cfg, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatal(err)
	}
	cfg.AppHost = "127.0.0.1"
	cfg.AppPort = "18087"
	cfg.GRPCHealthPort = "15052"
	cfg.LogLevel = "debug"
	cfg.Store = storePostgres
	cfg.PGHost = pgHost
	cfg.PGPort = pgPort.Int()
	cfg.PGUser = "user"
	cfg.PGPassword = "password"
	cfg.PGDB = "testdb"
	cfg.RedisHost = redisHost
	cfg.RedisPort = redisPort.Int()

	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(testCtx, cfg) }()

	select {
	case <-time.After(11 * time.Second):
		t.Fatal("test timed out")
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected run to succeed, got error: %v", err)
		}
		t.Log("run completed successfully")
	}
}
