package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/adapter/repo/memory"
	"printbank/internal/app/ledger"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type staticFlags bool

func (f staticFlags) GameEnabled(context.Context) (bool, error) { return bool(f), nil }

func newUseCase(now *time.Time, enabled bool) UseCase {
	store := memory.NewStore()
	tx := memory.NewTxManager(store)
	players := memory.NewPlayerRepo(store)
	accounts := memory.NewAccountRepo(store)
	clock := func() time.Time { return *now }
	return UseCase{
		TxManager: tx,
		Players:   players,
		Accounts:  accounts,
		Now:       clock,
		Ledger: ledger.Ledger{
			TxManager:    tx,
			Players:      players,
			Accounts:     accounts,
			Transactions: memory.NewTransactionRepo(store),
			Commissions:  memory.NewCommissionQueue(store),
			Flags:        staticFlags(enabled),
			Now:          clock,
		},
	}
}

func TestInitialize_CreatesStartingRecord(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(&now, true)

	got, err := uc.Initialize(context.Background(), InitializeRequest{PlayerID: "p-1"})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	p := got.Player
	if p.MoneyStorageLevel != 1 || p.MaterialStorageLevel != 1 || p.ProductionRateLevel != 1 || p.UnitValueLevel != 1 {
		t.Fatalf("expected level 1 everywhere, got %+v", p)
	}
	if !p.Balance.IsZero() || !p.TaskBalance.IsZero() || !p.RawMaterial.Equal(economy.InitialRawMaterial) {
		t.Fatalf("unexpected starting balances: %+v", p)
	}
	if p.Rank != economy.RankBronzeMedal || !p.LastSnapshotAt.Equal(now) {
		t.Fatalf("unexpected rank or snapshot: %+v", p)
	}
	if !got.Account.CommissionPercent.Equal(economy.DefaultCommissionPercent) {
		t.Fatalf("unexpected commission percent %s", got.Account.CommissionPercent)
	}
}

func TestInitialize_IsIdempotent(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(&now, true)
	ctx := context.Background()

	if _, err := uc.Initialize(ctx, InitializeRequest{PlayerID: "p-1"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	now = now.Add(time.Hour)
	if _, err := uc.Get(ctx, "p-1", true); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	again, err := uc.Initialize(ctx, InitializeRequest{PlayerID: "p-1"})
	if err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if !again.Player.Balance.Equal(decimal.NewFromInt(360)) || again.Player.Version != 2 {
		t.Fatalf("expected existing record, got %+v", again.Player)
	}
}

func TestInitialize_ReferralChain(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(&now, true)
	ctx := context.Background()

	for _, req := range []InitializeRequest{
		{PlayerID: "grand"},
		{PlayerID: "parent", ReferrerID: "grand"},
		{PlayerID: "child", ReferrerID: "parent"},
	} {
		if _, err := uc.Initialize(ctx, req); err != nil {
			t.Fatalf("initialize %s: %v", req.PlayerID, err)
		}
	}
	child, err := uc.Get(ctx, "child", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if child.Account.ReferrerID != "parent" || child.Account.GrandReferrerID != "grand" {
		t.Fatalf("unexpected chain: %+v", child.Account)
	}

	_, err = uc.Initialize(ctx, InitializeRequest{PlayerID: "orphan", ReferrerID: "nobody"})
	if !errors.Is(err, ErrInvalidReferral) {
		t.Fatalf("expected invalid referral, got %v", err)
	}
	if _, err := uc.Get(ctx, "orphan", false); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("failed initialization must not persist, got %v", err)
	}

	self, err := uc.Initialize(ctx, InitializeRequest{PlayerID: "solo", ReferrerID: "solo"})
	if err != nil {
		t.Fatalf("self referral: %v", err)
	}
	if self.Account.ReferrerID != "" {
		t.Fatalf("self referral must be dropped, got %q", self.Account.ReferrerID)
	}
}

func TestGet_ReconcileRespectsGameFlag(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(&now, false)
	ctx := context.Background()

	if _, err := uc.Initialize(ctx, InitializeRequest{PlayerID: "p-1"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	now = now.Add(time.Hour)
	got, err := uc.Get(ctx, "p-1", true)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Player.Balance.IsZero() || got.Player.Version != 1 {
		t.Fatalf("expected stored record while disabled, got %+v", got.Player)
	}
	if _, err := uc.Get(ctx, "ghost", true); !errors.Is(err, ports.ErrPlayerNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}
}
