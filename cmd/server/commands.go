package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"printbank/internal/adapter/flags"
	gormrepo "printbank/internal/adapter/repo/gorm"
	"printbank/internal/config"
)

func loadConfig(path string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Log.NewLogger()
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	var (
		migrate  bool
		dispatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApplication(cfg, logger)
			if err != nil {
				return err
			}
			if migrate && a.db != nil {
				if _, err := gormrepo.ApplyMigrations(ctx, a.db, migrationsFS(cfg.DB.MigrationsDir), logger); err != nil {
					return err
				}
			}

			s := server.Default(server.WithHostPorts(cfg.Addr))
			a.handler.RegisterRoutes(s)

			g, gctx := errgroup.WithContext(ctx)
			if dispatch {
				g.Go(func() error {
					return runDispatchLoop(gctx, a.dispatcher, cfg.Worker.DispatchEvery.Duration, false, logger)
				})
			}
			logger.Info("printbank server listening", "addr", cfg.Addr, "dispatch", dispatch)
			s.Spin()
			stop()
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	cmd.Flags().BoolVar(&dispatch, "dispatch", true, "deliver commission credits in-process")
	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			applied, err := gormrepo.ApplyMigrations(cmd.Context(), db, migrationsFS(cfg.DB.MigrationsDir), logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}

func newWorkerCmd(configPath *string) *cobra.Command {
	var runOnce bool
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Deliver pending referral commission credits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.DB.DSN == "" {
				return errDSNRequired
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApplication(cfg, logger)
			if err != nil {
				return err
			}
			return runDispatchLoop(ctx, a.dispatcher, cfg.Worker.DispatchEvery.Duration, runOnce, logger)
		},
	}
	cmd.Flags().BoolVar(&runOnce, "run-once", os.Getenv("PRINTBANK_WORKER_RUN_ONCE") == "true", "run a single dispatch pass and exit")
	return cmd
}

func newGameCmd(configPath *string) *cobra.Command {
	game := &cobra.Command{
		Use:   "game",
		Short: "Inspect or switch the global game flag",
	}
	set := func(enabled bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			svc, err := gameService(*configPath)
			if err != nil {
				return err
			}
			if err := svc.SetEnabled(cmd.Context(), enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "game enabled=%t\n", enabled)
			return nil
		}
	}
	game.AddCommand(&cobra.Command{Use: "enable", Short: "Resume accrual for every player", RunE: set(true)})
	game.AddCommand(&cobra.Command{Use: "disable", Short: "Freeze accrual for every player", RunE: set(false)})
	game.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current game flag",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := gameService(*configPath)
			if err != nil {
				return err
			}
			enabled, err := svc.GameEnabled(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "game enabled=%t\n", enabled)
			return nil
		},
	})
	return game
}

func gameService(configPath string) (*flags.Service, error) {
	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return &flags.Service{Settings: gormRepos(db).settings, Logger: logger}, nil
}

