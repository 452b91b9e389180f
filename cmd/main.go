package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	_ "github.com/sbilibin2017/gw-escrow-settlement/docs"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/facades"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/handlers"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/health"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/jwt"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/middlewares"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/repositories"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/scheduler"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// Storage backends selectable with STORE.
const (
	storeMemory   = "memory"
	storePostgres = "postgres"
)

// config holds everything parseConfig reads from the environment.
type config struct {
	AppHost        string
	AppPort        string
	LogLevel       string
	GRPCHealthPort string

	Store string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string // Empty disables the wallet cache
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int
	RedisExpSecond    int

	KafkaBrokers           []string // Empty disables ledger events and notifications
	KafkaLedgerTopic       string
	KafkaNotificationTopic string

	PaystackBaseURL   string
	PaystackSecretKey string
	PaystackCurrency  string
	PaystackRetryMax  int
	PaystackTimeout   time.Duration

	PlatformFeeBPS       int64
	CommissionWindowDays int
	WithdrawalMode       string
	WithdrawalMinAmount  int64
	SpendingLimits       models.SpendingLimits

	AutoReleaseSchedule  string
	AutoReleaseBatchSize int
	AutoReleaseTimeout   time.Duration

	JWTSecretKey string
	JWTExpSecond int

	RateLimit       int64
	RateLimitPeriod time.Duration
}

// @title gw-escrow-settlement API
// @version 1.0.0
// @description Wallet, escrow and settlement service for a two-sided services marketplace
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// the application configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}
	getInt64 := func(key, defaultValue string) (int64, error) {
		v, err := strconv.ParseInt(getEnv(key, defaultValue), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.GRPCHealthPort = getEnv("GRPC_HEALTH_PORT", "50051")
	cfg.Store = getEnv("STORE", storeMemory)
	if cfg.Store != storeMemory && cfg.Store != storePostgres {
		err = fmt.Errorf("STORE: unknown backend %q", cfg.Store)
		return
	}

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	if cfg.PGPort, err = getInt("POSTGRES_PORT", "5432"); err != nil {
		return
	}
	if cfg.PGMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return
	}
	if cfg.PGMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	if cfg.RedisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", "10"); err != nil {
		return
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return
	}
	if cfg.RedisExpSecond, err = getInt("REDIS_EXP_SECOND", "60"); err != nil {
		return
	}

	// Kafka config
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaLedgerTopic = getEnv("KAFKA_LEDGER_TOPIC", "ledger-events")
	cfg.KafkaNotificationTopic = getEnv("KAFKA_NOTIFICATION_TOPIC", "notifications")

	// Payment provider config
	cfg.PaystackBaseURL = getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co")
	cfg.PaystackSecretKey = getEnv("PAYSTACK_SECRET_KEY", "")
	cfg.PaystackCurrency = getEnv("PAYSTACK_CURRENCY", "NGN")
	if cfg.PaystackRetryMax, err = getInt("PAYSTACK_RETRY_MAX", "3"); err != nil {
		return
	}
	var paystackTimeout int
	if paystackTimeout, err = getInt("PAYSTACK_TIMEOUT_SECOND", "15"); err != nil {
		return
	}
	cfg.PaystackTimeout = time.Duration(paystackTimeout) * time.Second

	// Settlement config
	if cfg.PlatformFeeBPS, err = getInt64("PLATFORM_FEE_BPS", "1000"); err != nil {
		return
	}
	if cfg.CommissionWindowDays, err = getInt("COMMISSION_WINDOW_DAYS", "90"); err != nil {
		return
	}
	cfg.WithdrawalMode = getEnv("WITHDRAWAL_MODE", services.WithdrawalModeDirect)
	if cfg.WithdrawalMode != services.WithdrawalModeDirect && cfg.WithdrawalMode != services.WithdrawalModeApproval {
		err = fmt.Errorf("WITHDRAWAL_MODE: unknown mode %q", cfg.WithdrawalMode)
		return
	}
	if cfg.WithdrawalMinAmount, err = getInt64("WITHDRAWAL_MIN_AMOUNT", "100000"); err != nil {
		return
	}
	if cfg.SpendingLimits.Transaction, err = getInt64("SPEND_LIMIT_TRANSACTION", "0"); err != nil {
		return
	}
	if cfg.SpendingLimits.Daily, err = getInt64("SPEND_LIMIT_DAILY", "0"); err != nil {
		return
	}
	if cfg.SpendingLimits.Monthly, err = getInt64("SPEND_LIMIT_MONTHLY", "0"); err != nil {
		return
	}

	// Auto-release config
	cfg.AutoReleaseSchedule = getEnv("AUTO_RELEASE_SCHEDULE", "@every 5m")
	if cfg.AutoReleaseBatchSize, err = getInt("AUTO_RELEASE_BATCH_SIZE", "100"); err != nil {
		return
	}
	var autoReleaseTimeout int
	if autoReleaseTimeout, err = getInt("AUTO_RELEASE_TIMEOUT_SECOND", "240"); err != nil {
		return
	}
	cfg.AutoReleaseTimeout = time.Duration(autoReleaseTimeout) * time.Second

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.JWTExpSecond, err = getInt("JWT_EXP_SECOND", "3600"); err != nil {
		return
	}

	// Rate limit config
	if cfg.RateLimit, err = getInt64("RATE_LIMIT", "30"); err != nil {
		return
	}
	var rateLimitPeriod int
	if rateLimitPeriod, err = getInt("RATE_LIMIT_PERIOD_SECOND", "60"); err != nil {
		return
	}
	cfg.RateLimitPeriod = time.Duration(rateLimitPeriod) * time.Second

	return
}

// storage groups the repositories of one backend.
type storage struct {
	wallets     services.WalletRepository
	entries     services.LedgerRepository
	escrows     services.EscrowRepository
	bookings    services.BookingSource
	referrals   services.ReferralRepository
	partners    services.PartnerRepository
	commissions services.CommissionRepository
	rules       services.RuleRepository
	releaseLogs services.AutoReleaseLogRepository
	withdrawals services.WithdrawalRepository
}

func memoryStorage() storage {
	store := repositories.NewMemoryStore()
	return storage{
		wallets:     store.Wallets,
		entries:     store.Ledger,
		escrows:     store.Escrows,
		bookings:    store.Bookings,
		referrals:   store.Referrals,
		partners:    store.Partners,
		commissions: store.Commissions,
		rules:       store.Rules,
		releaseLogs: store.ReleaseLogs,
		withdrawals: store.Withdrawals,
	}
}

func postgresStorage(db *sqlx.DB) storage {
	return storage{
		wallets:     repositories.NewWalletRepository(db),
		entries:     repositories.NewLedgerRepository(db),
		escrows:     repositories.NewEscrowRepository(db),
		bookings:    repositories.NewBookingRepository(db),
		referrals:   repositories.NewReferralRepository(db),
		partners:    repositories.NewPartnerRepository(db),
		commissions: repositories.NewCommissionRepository(db),
		rules:       repositories.NewRuleRepository(db),
		releaseLogs: repositories.NewAutoReleaseLogRepository(db),
		withdrawals: repositories.NewWithdrawalRepository(db),
	}
}

// run initializes the logger, storage, Redis, Kafka, payment provider and
// the HTTP and gRPC health servers. It sets up routes, applies middleware,
// starts the auto-release scheduler and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Storage
	var store storage
	switch cfg.Store {
	case storePostgres:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
		logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)

		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return fmt.Errorf("PostgreSQL connection error: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.PGMaxOpenConns)
		db.SetMaxIdleConns(cfg.PGMaxIdleConns)
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("PostgreSQL ping failed: %w", err)
		}
		if err := repositories.Migrate(ctx, db); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
		store = postgresStorage(db)
	default:
		logger.Log.Warn("Using in-memory storage, state is lost on restart")
		store = memoryStorage()
	}

	// Redis wallet cache
	var cache services.WalletCache
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()
		cache = repositories.NewWalletCacheRepository(rdb, time.Duration(cfg.RedisExpSecond)*time.Second)
	}

	// Kafka writers
	var (
		ledgerWriter services.KafkaWriter
		notifier     services.Notifier
	)
	if len(cfg.KafkaBrokers) > 0 {
		lw := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaLedgerTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		nw := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaNotificationTopic,
			Balancer:               &kafka.Hash{},
			Async:                  true,
			AllowAutoTopicCreation: true,
		}
		defer nw.Close()
		ledgerWriter = lw
		notifier = facades.NewKafkaNotifier(nw)
	}

	// Payment provider
	paystack := facades.NewPaystackFacade(facades.PaystackConfig{
		BaseURL:   cfg.PaystackBaseURL,
		SecretKey: cfg.PaystackSecretKey,
		Currency:  cfg.PaystackCurrency,
		Timeout:   cfg.PaystackTimeout,
		RetryMax:  cfg.PaystackRetryMax,
	})

	// JWT
	tokener := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(time.Duration(cfg.JWTExpSecond)*time.Second),
	)

	// Services
	book := services.NewBookkeeper(store.wallets, store.entries, cache, ledgerWriter, cfg.SpendingLimits)
	defer book.Close()

	engine := services.NewSettlementEngine(book, store.escrows, store.bookings, notifier, cfg.PlatformFeeBPS)
	commissionService := services.NewCommissionService(store.referrals, store.partners, store.commissions, cfg.CommissionWindowDays)
	engine.SetCommissionProcessor(commissionService)

	topUpService := services.NewTopUpService(book, paystack, notifier)
	withdrawalService := services.NewWithdrawalService(book, store.withdrawals, paystack, notifier, services.WithdrawalConfig{
		MinAmount: cfg.WithdrawalMinAmount,
		Mode:      cfg.WithdrawalMode,
	})

	evaluator := services.NewAutoReleaseEvaluator(store.rules, store.releaseLogs, store.escrows, store.bookings, engine, cfg.AutoReleaseBatchSize)
	if err := evaluator.SeedDefaultRules(ctx); err != nil {
		return fmt.Errorf("failed to seed auto-release rules: %w", err)
	}

	// gRPC health server
	healthSrv := health.New()
	engine.OnHaltChange(healthSrv.SetHalted)

	// Handlers
	walletHandler := handlers.NewGetWalletHandler(engine, tokener)
	ledgerHandler := handlers.NewGetLedgerHandler(engine, tokener)
	topUpHandler := handlers.NewTopUpHandler(topUpService, tokener)
	verifyTopUpHandler := handlers.NewVerifyTopUpHandler(topUpService, tokener)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, tokener)
	getWithdrawalHandler := handlers.NewGetWithdrawalHandler(withdrawalService, tokener)
	approveWithdrawalHandler := handlers.NewApproveWithdrawalHandler(withdrawalService, tokener)
	rejectWithdrawalHandler := handlers.NewRejectWithdrawalHandler(withdrawalService)
	holdHandler := handlers.NewHoldFundsHandler(engine)
	releaseHandler := handlers.NewReleaseFundsHandler(engine, tokener)
	refundHandler := handlers.NewRefundFundsHandler(engine)
	commissionHandler := handlers.NewCommissionHandler(commissionService)
	runAutoReleaseHandler := handlers.NewRunAutoReleaseHandler(evaluator)
	acknowledgeHandler := handlers.NewAcknowledgeHandler(engine, tokener)
	rollbackHandler := handlers.NewRollbackReleaseHandler(engine)
	webhookHandler := handlers.NewWebhookHandler(paystack, topUpService, withdrawalService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	// Public routes
	handlers.RegisterWebhookHandler(r, webhookHandler)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	// Wallet owner routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokener))
		handlers.RegisterGetWalletHandler(r, walletHandler)
		handlers.RegisterGetLedgerHandler(r, ledgerHandler)
		handlers.RegisterGetWithdrawalHandler(r, getWithdrawalHandler)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RateLimitMiddleware(cfg.RateLimit, cfg.RateLimitPeriod))
			handlers.RegisterTopUpHandler(r, topUpHandler)
			handlers.RegisterVerifyTopUpHandler(r, verifyTopUpHandler)
			handlers.RegisterWithdrawalHandler(r, withdrawalHandler)
		})
	})

	// Booking lifecycle routes, called by the booking service
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokener))
		r.Use(middlewares.RoleMiddleware(tokener, jwt.RoleService, jwt.RoleAdmin))
		handlers.RegisterBookingHandlers(r, holdHandler, releaseHandler, refundHandler, commissionHandler)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokener))
		r.Use(middlewares.RoleMiddleware(tokener, jwt.RoleAdmin))
		handlers.RegisterApproveWithdrawalHandler(r, approveWithdrawalHandler)
		handlers.RegisterRejectWithdrawalHandler(r, rejectWithdrawalHandler)
		handlers.RegisterAdminHandlers(r, runAutoReleaseHandler, acknowledgeHandler, rollbackHandler)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcLis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.AppHost, cfg.GRPCHealthPort))
	if err != nil {
		return fmt.Errorf("gRPC health listener failed: %w", err)
	}

	// Auto-release scheduler
	sched := scheduler.New(cfg.AutoReleaseSchedule, evaluator, cfg.AutoReleaseTimeout)
	if err := sched.Start(); err != nil {
		grpcLis.Close()
		return fmt.Errorf("auto-release scheduler failed: %w", err)
	}

	// Graceful shutdown
	errChan := make(chan error, 2)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("gRPC health server listening on %s", grpcLis.Addr())
		if err := healthSrv.Serve(grpcLis); err != nil {
			errChan <- fmt.Errorf("gRPC health server failed: %w", err)
		}
	}()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping servers...")
	case serveErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}
	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Log.Warn("Auto-release pass still running at shutdown")
	}
	healthSrv.Stop()

	if serveErr != nil {
		return serveErr
	}
	logger.Log.Info("Servers stopped gracefully")
	return nil
}
