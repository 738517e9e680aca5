package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

func TestTxManager_RollsBackOnError(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	players := NewPlayerRepo(store)
	accounts := NewAccountRepo(store)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SeedPlayer(economy.NewPlayer("p-1", now))

	boom := errors.New("boom")
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := players.GetByPlayerID(txCtx, "p-1")
		if err != nil {
			return err
		}
		next := p
		next.Balance = decimal.NewFromInt(500)
		next.Version = p.Version + 1
		if err := players.SaveWithVersion(txCtx, next, p.Version); err != nil {
			return err
		}
		if err := accounts.Create(txCtx, economy.Account{PlayerID: "p-1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := players.GetByPlayerID(ctx, "p-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Balance.IsZero() || got.Version != 1 {
		t.Fatalf("expected rollback, got balance=%s version=%d", got.Balance, got.Version)
	}
	if _, err := accounts.GetByPlayerID(ctx, "p-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected account rollback, got %v", err)
	}
}

func TestPlayerRepo_SaveWithVersionConflict(t *testing.T) {
	store := NewStore()
	players := NewPlayerRepo(store)
	ctx := context.Background()

	p := economy.NewPlayer("p-1", time.Now())
	if err := players.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := players.Create(ctx, p); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected duplicate create conflict, got %v", err)
	}

	p.Version = 2
	if err := players.SaveWithVersion(ctx, p, 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	p.Version = 3
	if err := players.SaveWithVersion(ctx, p, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected stale version conflict, got %v", err)
	}
}

func TestAccountRepo_AddBankBalanceRejectsOverdraft(t *testing.T) {
	store := NewStore()
	accounts := NewAccountRepo(store)
	ctx := context.Background()
	store.SeedAccount(economy.Account{PlayerID: "p-1", BankBalance: decimal.NewFromInt(50)})

	if err := accounts.AddBankBalance(ctx, "p-1", decimal.NewFromInt(-20)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := accounts.AddBankBalance(ctx, "p-1", decimal.NewFromInt(-31)); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected overdraft conflict, got %v", err)
	}
	got, _ := accounts.GetByPlayerID(ctx, "p-1")
	if !got.BankBalance.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected 30, got %s", got.BankBalance)
	}
}

func TestTransactionRepo_DeduplicatesByHash(t *testing.T) {
	store := NewStore()
	repo := NewTransactionRepo(store)
	ctx := context.Background()
	now := time.Now()

	rec := ports.TransactionRecord{Hash: "h-1", PlayerID: "p-1", Item: "p1", CreatedAt: now}
	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, rec); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	list, err := repo.ListByPlayerSince(ctx, "p-1", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(list))
	}
	if got, err := repo.GetByHash(ctx, "h-1"); err != nil || got.Item != "p1" {
		t.Fatalf("unexpected record by hash: %+v (%v)", got, err)
	}
	if _, err := repo.GetByHash(ctx, "h-2"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReferralRepo_ListByReferrerSkipsSelfRecord(t *testing.T) {
	store := NewStore()
	repo := NewReferralRepo(store)
	ctx := context.Background()
	now := time.Now()

	for _, rec := range []ports.ReferralRecord{
		{ID: "r-self", ReferrerID: "parent", ReferralID: "parent", CreatedAt: now},
		{ID: "r-2", ReferrerID: "parent", ReferralID: "b", CreatedAt: now.Add(2 * time.Second)},
		{ID: "r-1", ReferrerID: "parent", ReferralID: "a", CreatedAt: now.Add(time.Second)},
		{ID: "r-x", ReferrerID: "other", ReferralID: "c", CreatedAt: now},
	} {
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", rec.ID, err)
		}
	}
	got, err := repo.ListByReferrer(ctx, "parent")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ReferralID != "a" || got[1].ReferralID != "b" {
		t.Fatalf("expected referrals a, b in creation order, got %+v", got)
	}
}

func TestCommissionQueue_DeliversOnce(t *testing.T) {
	store := NewStore()
	q := NewCommissionQueue(store)
	ctx := context.Background()

	if err := q.Enqueue(ctx,
		ports.CommissionCredit{ID: "c-1", ReferrerID: "r-1", Amount: decimal.NewFromInt(3), Depth: 1},
		ports.CommissionCredit{ID: "c-2", ReferrerID: "r-2", Amount: decimal.NewFromInt(1), Depth: 2},
	); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	pending, _ := q.ListPending(ctx, 10)
	if len(pending) != 2 || pending[0].ID != "c-1" {
		t.Fatalf("unexpected pending: %+v", pending)
	}

	if err := q.MarkDelivered(ctx, "c-1", time.Now()); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := q.MarkDelivered(ctx, "c-1", time.Now()); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected second delivery conflict, got %v", err)
	}
	if err := q.MarkFailed(ctx, "c-2", "timeout", true); err != nil {
		t.Fatalf("fail: %v", err)
	}
	pending, _ = q.ListPending(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected nothing pending, got %+v", pending)
	}
	c2, _ := q.Credit(ctx, "c-2")
	if c2.Status != ports.CreditDead || c2.Attempts != 1 || c2.LastError != "timeout" {
		t.Fatalf("unexpected dead credit: %+v", c2)
	}
}
