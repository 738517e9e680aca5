package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"printbank/internal/adapter/cache/lrucache"
	"printbank/internal/adapter/flags"
	httpadapter "printbank/internal/adapter/http"
	metricsinmem "printbank/internal/adapter/metrics/inmemory"
	gormrepo "printbank/internal/adapter/repo/gorm"
	"printbank/internal/adapter/repo/memory"
	"printbank/internal/app/admin"
	"printbank/internal/app/booster"
	"printbank/internal/app/daily"
	"printbank/internal/app/leaderboard"
	"printbank/internal/app/ledger"
	"printbank/internal/app/player"
	"printbank/internal/app/ports"
	"printbank/internal/app/rank"
	"printbank/internal/app/referral"
	"printbank/internal/app/task"
	"printbank/internal/app/transfer"
	"printbank/internal/app/upgrade"
	"printbank/internal/config"
	"printbank/migrations"
)

var errDSNRequired = errors.New("db dsn is required (set PRINTBANK_DB_DSN or [db].dsn)")

type repos struct {
	tx           ports.TxManager
	players      ports.PlayerRepository
	accounts     ports.AccountRepository
	referrals    ports.ReferralRepository
	commissions  ports.CommissionQueue
	transactions ports.TransactionRepository
	purchases    ports.PurchaseCommissionRepository
	tasks        ports.TaskRepository
	completions  ports.TaskCompletionRepository
	settings     ports.SettingsRepository
}

type application struct {
	handler    httpadapter.Handler
	dispatcher referral.Dispatcher
	game       *flags.Service
	db         *gorm.DB
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		return nil, errDSNRequired
	}
	return gormrepo.OpenPostgres(cfg.DB.DSN, gormrepo.PoolOptions{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime.Duration,
	})
}

func gormRepos(db *gorm.DB) repos {
	return repos{
		tx:           gormrepo.NewTxManager(db),
		players:      gormrepo.NewPlayerRepo(db),
		accounts:     gormrepo.NewAccountRepo(db),
		referrals:    gormrepo.NewReferralRepo(db),
		commissions:  gormrepo.NewCommissionQueue(db),
		transactions: gormrepo.NewTransactionRepo(db),
		purchases:    gormrepo.NewPurchaseCommissionRepo(db),
		tasks:        gormrepo.NewTaskRepo(db),
		completions:  gormrepo.NewTaskCompletionRepo(db),
		settings:     gormrepo.NewSettingsRepo(db),
	}
}

func memoryRepos() repos {
	store := memory.NewStore()
	return repos{
		tx:           memory.NewTxManager(store),
		players:      memory.NewPlayerRepo(store),
		accounts:     memory.NewAccountRepo(store),
		referrals:    memory.NewReferralRepo(store),
		commissions:  memory.NewCommissionQueue(store),
		transactions: memory.NewTransactionRepo(store),
		purchases:    memory.NewPurchaseCommissionRepo(store),
		tasks:        memory.NewTaskRepo(store),
		completions:  memory.NewTaskCompletionRepo(store),
		settings:     memory.NewSettingsRepo(store),
	}
}

// buildApplication wires every use case. Without a DSN it falls back to the
// in-memory store, which loses state on restart.
func buildApplication(cfg config.Config, logger *slog.Logger) (*application, error) {
	var (
		r  repos
		db *gorm.DB
	)
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		logger.Warn("no database configured, using in-memory store")
		r = memoryRepos()
	} else {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		r = gormRepos(db)
	}

	cache, err := lrucache.New(cfg.Leaderboard.Size, cfg.Leaderboard.TTL.Duration)
	if err != nil {
		return nil, err
	}
	game := &flags.Service{Settings: r.settings, RefreshEvery: cfg.Game.FlagRefresh.Duration, Logger: logger}
	kpi := metricsinmem.NewRecorder()

	l := ledger.Ledger{
		TxManager:    r.tx,
		Players:      r.players,
		Accounts:     r.accounts,
		Transactions: r.transactions,
		Commissions:  r.commissions,
		Flags:        game,
		Metrics:      kpi,
		Logger:       logger,
		NewID:        uuid.NewString,
	}
	dispatcher := referral.Dispatcher{
		TxManager:   r.tx,
		Accounts:    r.accounts,
		Queue:       r.commissions,
		Logger:      logger,
		BatchSize:   cfg.Worker.BatchSize,
		Concurrency: cfg.Worker.Concurrency,
		MaxAttempts: cfg.Worker.MaxAttempts,
	}

	h := httpadapter.Handler{
		PlayerUC:   player.UseCase{TxManager: r.tx, Players: r.players, Accounts: r.accounts, Ledger: l},
		UpgradeUC:  upgrade.UseCase{Ledger: l},
		TransferUC: transfer.UseCase{Ledger: l, Accounts: r.accounts},
		RankUC:     rank.UseCase{Ledger: l},
		DailyUC:    daily.UseCase{Ledger: l},
		TaskUC: task.UseCase{
			Ledger:      l,
			Tasks:       r.tasks,
			Completions: r.completions,
			NewID:       uuid.NewString,
		},
		SubscriptionUC: referral.SubscriptionUseCase{
			TxManager: r.tx,
			Accounts:  r.accounts,
			Referrals: r.referrals,
			Flags:     game,
			Bonus:     cfg.Game.SubscriptionBonus,
			Logger:    logger,
			NewID:     uuid.NewString,
		},
		ProfileUC: referral.ProfileUseCase{Accounts: r.accounts, Referrals: r.referrals, Purchases: r.purchases},
		BoosterUC: booster.UseCase{
			Ledger:       l,
			Transactions: r.transactions,
			Purchases:    r.purchases,
			Accounts:     r.accounts,
			Logger:       logger,
		},
		AdminUC:       admin.UseCase{TxManager: r.tx, Accounts: r.accounts, Ledger: l, Logger: logger},
		LeaderboardUC: leaderboard.UseCase{Players: r.players, Cache: cache, Limit: cfg.Leaderboard.Limit},
		Dispatcher:    dispatcher,
		Game:          game,
		AdminToken:    cfg.Admin.Token,
		KPI:           kpi,
	}
	if h.AdminToken == "" {
		logger.Warn("admin token not set, admin routes are disabled")
	}

	return &application{handler: h, dispatcher: dispatcher, game: game, db: db}, nil
}

// migrationsFS prefers an on-disk directory so operators can ship hotfix
// migrations without rebuilding.
func migrationsFS(dir string) fs.FS {
	if strings.TrimSpace(dir) == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

// runDispatchLoop delivers pending commission credits every interval until
// ctx is done. With runOnce it performs a single pass.
func runDispatchLoop(ctx context.Context, d referral.Dispatcher, every time.Duration, runOnce bool, logger *slog.Logger) error {
	if runOnce {
		report, err := d.DeliverPending(ctx)
		if err != nil {
			return err
		}
		logger.Info("worker run-once completed", "delivered", report.Delivered, "failed", report.Failed, "dead", report.Dead)
		return nil
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("worker started", "dispatch_every", every.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return nil
		case <-ticker.C:
			if _, err := d.DeliverPending(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.Error("commission dispatch failed", "err", err)
			}
		}
	}
}
