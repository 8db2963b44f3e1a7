package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vleky/trailer-access/internal/domain/usecase/credential"
	"github.com/vleky/trailer-access/internal/domain/usecase/lockreg"
	"github.com/vleky/trailer-access/internal/domain/usecase/trailers"

	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/handler"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/routes"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/database"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/logger"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/provider/igloo"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/repository"
	timeProvider "github.com/vleky/trailer-access/internal/infrastructure/adapter/time"
	"github.com/vleky/trailer-access/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)

	// Setup database configuration
	dbConfig := &database.Config{
		Driver:          "postgres",
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      int(cfg.Database.RetryDelay / time.Second),
	}

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.MigrationManager().MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	lockRepo := repository.NewLockRepository(dbManager.DB(), tp, appLogger)
	trailerRepo := repository.NewTrailerRepository(dbManager.DB(), tp, appLogger)
	credentialRepo := repository.NewCredentialRepository(dbManager.DB(), tp, appLogger)
	leaseRepo := repository.NewReservationLeaseRepository(dbManager.DB(), tp, appLogger)

	// Unit of work (transaction manager)
	uow := dbManager.CreateUnitOfWork()

	// Lock provider client
	accessProvider := igloo.NewClient(igloo.Config{
		ClientID:              cfg.Provider.ClientID,
		ClientSecret:          cfg.Provider.ClientSecret,
		TokenURL:              cfg.Provider.TokenURL,
		APIBase:               cfg.Provider.APIBase,
		RequestTimeout:        cfg.Provider.RequestTimeout,
		InsecureSkipTLSVerify: cfg.Provider.InsecureSkipTLSVerify,
	}, tp, appLogger)

	// Initialize use cases
	lockRegistry := lockreg.NewRegistry(lockRepo, trailerRepo, tp, appLogger)
	trailerService := trailers.NewService(trailerRepo, tp, appLogger)

	issuer := credential.NewIssuer(accessProvider, credential.IssuerConfig{
		MockPinLength: cfg.Credential.MockPinLength,
		MaxVariance:   cfg.Credential.MaxVariance,
		MockFallback:  cfg.Credential.MockFallback,
	}, appLogger)

	credentialService := credential.NewService(
		lockRegistry,
		issuer,
		uow,
		credentialRepo,
		leaseRepo,
		tp,
		appLogger,
		credential.Config{
			DefaultWindowMinutes: cfg.Credential.WindowMinutes,
			RotationAttempts:     cfg.Credential.RotationAttempts,
			LeaseTTL:             cfg.Credential.LeaseTTL,
		},
	)

	// Initialize API handlers
	lockHandler := handler.NewLockHandler(lockRegistry, appLogger)
	credentialHandler := handler.NewCredentialHandler(credentialService, appLogger)
	trailerHandler := handler.NewTrailerHandler(trailerService, appLogger)
	systemHandler := handler.NewSystemHandler(accessProvider, dbManager, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, lockHandler, credentialHandler, trailerHandler, systemHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server first so no new issuances arrive, then drain the
	// per-reservation queues
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}
	credentialService.Shutdown()

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	if cfg.Database.Host == "" {
		// In production, check if environment variable exists
		if cfg.Environment == config.Production && os.Getenv("VLK_DB_HOST") == "" {
			missingConfigs = append(missingConfigs, "database.host (or VLK_DB_HOST environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.host")
		}
	}

	if cfg.Database.Port == "" {
		if cfg.Environment == config.Production && os.Getenv("VLK_DB_PORT") == "" {
			missingConfigs = append(missingConfigs, "database.port (or VLK_DB_PORT environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.port")
		}
	}

	if cfg.Database.Username == "" {
		if cfg.Environment == config.Production && os.Getenv("VLK_DB_USERNAME") == "" {
			missingConfigs = append(missingConfigs, "database.username (or VLK_DB_USERNAME environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.username")
		}
	}

	if cfg.Database.Password == "" {
		if cfg.Environment == config.Production && os.Getenv("VLK_DB_PASSWORD") == "" {
			missingConfigs = append(missingConfigs, "database.password (or VLK_DB_PASSWORD environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.password")
		}
	}

	if cfg.Database.Database == "" {
		if cfg.Environment == config.Production && os.Getenv("VLK_DB_NAME") == "" {
			missingConfigs = append(missingConfigs, "database.database (or VLK_DB_NAME environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.database")
		}
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Validate credential issuance configuration
	if cfg.Credential.WindowMinutes == 0 {
		missingConfigs = append(missingConfigs, "credential.windowMinutes")
	}

	if cfg.Credential.RotationAttempts == 0 {
		missingConfigs = append(missingConfigs, "credential.rotationAttempts")
	}

	// Provider credentials may legitimately be absent; the issuer then runs
	// on mock fallback. Warn rather than fail.
	if cfg.Provider.ClientID == "" || cfg.Provider.ClientSecret == "" {
		if !cfg.Credential.MockFallback {
			missingConfigs = append(missingConfigs,
				"provider.clientId/provider.clientSecret (or VLK_IGLOO_CLIENT_ID/VLK_IGLOO_CLIENT_SECRET environment variables)")
		} else {
			log.Printf("Warning: provider credentials not configured, PIN issuance will use mock fallback")
		}
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		// Check database security settings
		if strings.ToLower(cfg.Database.SSLMode) != "require" && strings.ToLower(cfg.Database.SSLMode) != "verify-ca" && strings.ToLower(cfg.Database.SSLMode) != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if cfg.Provider.InsecureSkipTLSVerify {
			warnings = append(warnings, "provider.insecureSkipTlsVerify must not be enabled in production")
		}

		// Check timeout settings
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}

		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
