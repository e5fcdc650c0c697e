package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/config"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/metrics"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/storage"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server and begin accepting requests.

Configuration comes from environment variables; the --host and --port flags
override it. When BOOTSTRAP_* variables are set, a first privileged account
and its school are created on startup so a fresh deployment can be logged
into. The Prometheus endpoint runs on a separate listener.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting tirek server")

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.NewWithConfig(poolCtx, poolCfg)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init: %w", err)
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrapAdmin(bootCtx, cfg, repo, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	bootCancel()

	apiServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, logger, repo, pool, Version),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", apiServer.Addr).Msg("api listener started")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info().Str("addr", metricsServer.Addr).Msg("metrics listener started")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("api shutdown error")
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics shutdown error")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// bootstrapAdmin seeds the first privileged account and its school. It is a
// no-op when the bootstrap variables are not fully set or the login already
// exists.
func bootstrapAdmin(ctx context.Context, cfg config.Config, repo storage.Repository, logger zerolog.Logger) error {
	boot := cfg.Bootstrap
	if boot.Login == "" || boot.Password == "" || boot.DisplayName == "" || boot.Organization == "" {
		logger.Debug().Msg("bootstrap env vars not fully set; skipping")
		return nil
	}

	if _, err := repo.Accounts().FindByLogin(ctx, boot.Login); err == nil {
		logger.Info().Str("login", boot.Login).Msg("bootstrap account already exists")
		return nil
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return fmt.Errorf("check bootstrap login: %w", err)
	}

	school, err := repo.Schools().FindByName(ctx, boot.Organization)
	if errors.Is(err, schools.ErrNotFound) {
		school = &schools.School{ID: uuid.NewString(), Name: boot.Organization}
		if err := repo.Schools().Create(ctx, school); err != nil {
			return fmt.Errorf("create bootstrap school: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("find bootstrap school: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(boot.Password), accounts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	account := &accounts.Account{
		ID:           uuid.NewString(),
		SchoolID:     school.ID,
		DisplayName:  boot.DisplayName,
		Role:         auth.RoleAdmin,
		Login:        boot.Login,
		PasswordHash: string(hash),
	}
	if err := repo.Accounts().Create(ctx, account); err != nil {
		return fmt.Errorf("create bootstrap account: %w", err)
	}

	logger.Info().Str("login", boot.Login).Str("school_id", school.ID).Msg("bootstrap admin created")
	return nil
}
