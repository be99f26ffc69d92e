package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"game-night-service/config"
	"game-night-service/handlers"
	"game-night-service/logger"
	"game-night-service/middleware"
	"game-night-service/repository"
	"game-night-service/services"
	"game-night-service/utils"
	"game-night-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:          "game-night-service",
		Short:        "Game night sessions, predictions, match scores and leaderboards",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(serveCmd(), migrateCmd(), sweepCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := repository.Migrate(db); err != nil {
				return err
			}
			log.Info("✅ database migrated")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Cancel stale Created/Betting sessions once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			if olderThan <= 0 {
				olderThan = cfg.StaleSessionAfter
			}
			app := newApplication(cfg, log, db)
			n, err := services.NewSessionSweeper(app.store, app.sessions, olderThan, log).Sweep(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("🧹 sweep finished", "cancelled", n, "older_than", olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Staleness threshold (defaults to STALE_SESSION_AFTER)")
	return cmd
}

func bootstrap() (*config.Config, *logger.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := repository.Open(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

// application holds the wired services shared by the commands.
type application struct {
	store     *repository.Store
	ledger    *services.PredictionLedger
	stats     *services.StatsAggregator
	sessions  *services.SessionService
	matches   *services.MatchService
	rankings  *services.RankingService
	dashboard *services.DashboardService
}

func newApplication(cfg *config.Config, log *logger.Logger, db *gorm.DB) *application {
	store := repository.NewStore(db, log)
	ledger := services.NewPredictionLedger(store, services.DefaultScoringPolicy, log)
	stats := services.NewStatsAggregator(store, log)
	sessions := services.NewSessionService(store, ledger, stats, log)
	return &application{
		store:    store,
		ledger:   ledger,
		stats:    stats,
		sessions: sessions,
		matches:  services.NewMatchService(store, services.NewCompatibilityScorer(), log),
		rankings: services.NewRankingService(store, services.RankingConfig{
			ChampionMinGames: cfg.ChampionMinGames,
			OracleMinBets:    cfg.OracleMinBets,
		}, log),
		dashboard: services.NewDashboardService(store, sessions, log),
	}
}

func runServe(ctx context.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := repository.Migrate(db); err != nil {
		return err
	}
	app := newApplication(cfg, log, db)

	jobs := []services.Job{
		services.SweepJob(services.NewSessionSweeper(app.store, app.sessions, cfg.StaleSessionAfter, log), cfg.SweepInterval),
	}
	if cfg.R2Enabled() {
		r2, err := utils.NewR2Client(ctx, utils.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2Bucket,
			CDNBaseURL:      cfg.CDNBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize R2 client: %w", err)
		}
		exporter := services.NewSnapshotExporter(app.store, app.rankings, r2, log)
		jobs = append(jobs, services.SnapshotJob(exporter, cfg.SnapshotInterval))
	} else {
		log.Info("⚠️ R2 not configured, leaderboard snapshots disabled")
	}

	sched, err := services.StartScheduler(ctx, log, jobs...)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			log.Warn("scheduler shutdown", "error", err)
		}
	}()

	if cfg.RosterSyncEnabled() {
		workers.NewRosterSyncWorker(app.store, cfg.RosterServiceURL, cfg.RosterServiceToken,
			cfg.RosterSyncInterval, utils.HTTPClient, log).Start(ctx)
	} else {
		log.Info("⚠️ ROSTER_SERVICE_URL not set, roster sync disabled")
	}

	server := newServer(cfg, log, app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.ListenAddr())
	}()
	log.Info("✅ server running", "addr", cfg.ListenAddr(), "origins", cfg.AllowedOrigins)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func newServer(cfg *config.Config, log *logger.Logger, app *application) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:      "game-night-service",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(log),
	})

	server.Use(middleware.RequestContextMiddleware(log))
	server.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: !slices.Contains(cfg.AllowedOrigins, "*"),
		MaxAge:           86400,
	}))

	handlers.SetupHealthRoutes(server, app.store, log)

	guards := []fiber.Handler{middleware.GatewayAuthMiddleware(cfg.GatewayToken, log)}
	if cfg.RateLimitEnabled {
		guards = append(guards, middleware.RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}
	api := server.Group("", guards...)
	handlers.SetupRoutes(api, handlers.Services{
		Sessions:  app.sessions,
		Ledger:    app.ledger,
		Stats:     app.stats,
		Matches:   app.matches,
		Rankings:  app.rankings,
		Dashboard: app.dashboard,
	}, log)
	return server
}
