package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
	"printbank/migrations"
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("PRINTBANK_DB_DSN")
	if dsn == "" {
		t.Skip("PRINTBANK_DB_DSN is required for integration test")
	}
	db, err := OpenPostgres(dsn, PoolOptions{})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), db, migrations.FS, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPlayerRepo_SaveWithVersion(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	playerID := "it-player-version"
	_ = db.Exec("DELETE FROM players WHERE player_id = ?", playerID).Error

	repo := NewPlayerRepo(db)
	now := time.Unix(1_700_000_000, 0).UTC()
	seed := economy.NewPlayer(playerID, now)
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, seed); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on duplicate create, got %v", err)
	}

	next := seed
	next.Balance = decimal.RequireFromString("360.00")
	next.RawMaterial = decimal.RequireFromString("28")
	next.LastSnapshotAt = now.Add(time.Hour)
	next.Version = 2
	if err := repo.SaveWithVersion(ctx, next, 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, next, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected stale version conflict, got %v", err)
	}

	got, err := repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Balance.Equal(next.Balance) || !got.RawMaterial.Equal(next.RawMaterial) || got.Version != 2 {
		t.Fatalf("unexpected player: %+v", got)
	}
	if !got.LastSnapshotAt.Equal(next.LastSnapshotAt) {
		t.Fatalf("snapshot time not preserved: %s", got.LastSnapshotAt)
	}
	if _, err := repo.GetByPlayerID(ctx, playerID+"-missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountRepo_AddBankBalanceGuardsNegative(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	playerID := "it-account-bank"
	_ = db.Exec("DELETE FROM accounts WHERE player_id = ?", playerID).Error

	repo := NewAccountRepo(db)
	if err := repo.Create(ctx, economy.Account{PlayerID: playerID, CommissionPercent: decimal.NewFromInt(10)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.AddBankBalance(ctx, playerID, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := repo.AddBankBalance(ctx, playerID, decimal.NewFromInt(-150)); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on overdraft, got %v", err)
	}
	if err := repo.AddBankBalance(ctx, playerID+"-missing", decimal.NewFromInt(1)); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetByPlayerID(ctx, ""); !errors.Is(err, ports.ErrPlayerNotFound) {
		t.Fatalf("empty id must not match an existing row, got %v", err)
	}
	got, err := repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.BankBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected bank 100, got %s", got.BankBalance)
	}
}

func TestCommissionQueue_DeliverOnce(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	id := "it-credit-once"
	_ = db.Exec("DELETE FROM commission_credits WHERE id = ?", id).Error

	q := NewCommissionQueue(db)
	credit := ports.CommissionCredit{ID: id, ReferrerID: "it-ref", ReferralID: "it-child", Amount: decimal.NewFromInt(36), Depth: 1, CreatedAt: time.Now().UTC()}
	if err := q.Enqueue(ctx, credit); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Enqueue(ctx, credit); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on duplicate enqueue, got %v", err)
	}
	if err := q.MarkFailed(ctx, id, "boom", false); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := q.MarkDelivered(ctx, id, time.Now().UTC()); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if err := q.MarkDelivered(ctx, id, time.Now().UTC()); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on second delivery, got %v", err)
	}
	pending, err := q.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, c := range pending {
		if c.ID == id {
			t.Fatalf("delivered credit still pending: %+v", c)
		}
	}
}

func TestTransactionRepo_DuplicateHashAndSum(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	hash := "it-tx-hash"
	_ = db.Exec("DELETE FROM transactions WHERE hash = ?", hash).Error
	_ = db.Exec("DELETE FROM purchase_commissions WHERE referrer_id = ?", "it-tx-ref").Error

	repo := NewTransactionRepo(db)
	rec := ports.TransactionRecord{Hash: hash, PlayerID: "it-tx-player", Item: "p1", Amount: decimal.NewFromInt(50), CreatedAt: time.Now().UTC()}
	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, rec); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on duplicate hash, got %v", err)
	}
	got, err := repo.ListByPlayerSince(ctx, rec.PlayerID, rec.CreatedAt.Add(-time.Minute))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Item != "p1" {
		t.Fatalf("unexpected records: %+v", got)
	}
	stored, err := repo.GetByHash(ctx, hash)
	if err != nil || stored.PlayerID != rec.PlayerID || !stored.Amount.Equal(rec.Amount) {
		t.Fatalf("unexpected record by hash: %+v (%v)", stored, err)
	}
	if _, err := repo.GetByHash(ctx, hash+"-missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	purchases := NewPurchaseCommissionRepo(db)
	total, err := purchases.SumByReferrer(ctx, "it-tx-ref")
	if err != nil || !total.IsZero() {
		t.Fatalf("expected zero sum, got %s (%v)", total, err)
	}
	if err := purchases.Insert(ctx, ports.PurchaseCommission{Hash: hash, ReferrerID: "it-tx-ref", ReferralID: rec.PlayerID, Bonus: decimal.RequireFromString("2.5"), CreatedAt: rec.CreatedAt}); err != nil {
		t.Fatalf("insert purchase: %v", err)
	}
	total, err = purchases.SumByReferrer(ctx, "it-tx-ref")
	if err != nil || !total.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("expected 2.5, got %s (%v)", total, err)
	}
}

func TestTaskRepos_Lifecycle(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	taskID := "it-task"
	_ = db.Exec("DELETE FROM tasks WHERE id = ?", taskID).Error
	_ = db.Exec("DELETE FROM task_completions WHERE task_id = ?", taskID).Error

	tasks := NewTaskRepo(db)
	rec := ports.TaskRecord{ID: taskID, Title: "Join", Bonus: decimal.NewFromInt(500), Langs: []string{"en", "ru"}, CreatedAt: time.Now().UTC()}
	if err := tasks.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	rec.CompletedTimes = 1
	if err := tasks.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := tasks.Get(ctx, taskID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CompletedTimes != 1 || len(got.Langs) != 2 {
		t.Fatalf("unexpected task: %+v", got)
	}
	if _, err := tasks.Get(ctx, ""); !errors.Is(err, ports.ErrTaskNotFound) {
		t.Fatalf("empty id must not match an existing row, got %v", err)
	}

	completions := NewTaskCompletionRepo(db)
	c := ports.TaskCompletion{PlayerID: "it-task-player", TaskID: taskID, Bonus: rec.Bonus, CreatedAt: time.Now().UTC()}
	if err := completions.Insert(ctx, c); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := completions.Insert(ctx, c); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on second completion, got %v", err)
	}
	if ok, err := completions.Exists(ctx, c.PlayerID, taskID); err != nil || !ok {
		t.Fatalf("expected completion to exist, ok=%v err=%v", ok, err)
	}

	if err := tasks.Delete(ctx, taskID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := tasks.Get(ctx, taskID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestReferralRepo_ListByReferrer(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	referrer := "it-ref-list"
	_ = db.Exec("DELETE FROM referrals WHERE referrer_id = ?", referrer).Error

	repo := NewReferralRepo(db)
	now := time.Now().UTC()
	for i, rec := range []ports.ReferralRecord{
		{ID: "it-ref-self", ReferrerID: referrer, ReferralID: referrer, Bonus: decimal.NewFromInt(1000), CreatedAt: now},
		{ID: "it-ref-a", ReferrerID: referrer, ReferralID: "it-ref-a", Bonus: decimal.NewFromInt(100), CreatedAt: now.Add(time.Second)},
		{ID: "it-ref-b", ReferrerID: referrer, ReferralID: "it-ref-b", Bonus: decimal.NewFromInt(100), CreatedAt: now.Add(2 * time.Second)},
	} {
		_ = db.Exec("DELETE FROM referrals WHERE id = ?", rec.ID).Error
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	got, err := repo.ListByReferrer(ctx, referrer)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ReferralID != "it-ref-a" || got[1].ReferralID != "it-ref-b" {
		t.Fatalf("expected two referrals without the self record, got %+v", got)
	}
}

func TestSettingsRepo_Upsert(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	key := "it-setting"
	_ = db.Exec("DELETE FROM settings WHERE key = ?", key).Error

	repo := NewSettingsRepo(db)
	if _, err := repo.Get(ctx, key); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Set(ctx, key, ports.GameDisabled); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, key, ports.GameEnabled); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := repo.Get(ctx, key)
	if err != nil || got != ports.GameEnabled {
		t.Fatalf("expected enabled, got %q (%v)", got, err)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	playerID := "it-tx-rollback"
	_ = db.Exec("DELETE FROM accounts WHERE player_id = ?", playerID).Error

	accounts := NewAccountRepo(db)
	boom := errors.New("boom")
	err := NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := accounts.Create(txCtx, economy.Account{PlayerID: playerID}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := accounts.GetByPlayerID(ctx, playerID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}
