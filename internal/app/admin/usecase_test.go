package admin

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

func newUseCase(t *testing.T, enabled bool) (UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	store.SeedPlayer(economy.NewPlayer("p-1", now))
	store.SeedAccount(economy.Account{PlayerID: "p-1", CommissionPercent: economy.DefaultCommissionPercent})

	tx := memory.NewTxManager(store)
	accounts := memory.NewAccountRepo(store)
	return UseCase{
		TxManager: tx,
		Accounts:  accounts,
		Ledger: ledger.Ledger{
			TxManager: tx,
			Players:   memory.NewPlayerRepo(store),
			Accounts:  accounts,
			Flags:     staticFlags(enabled),
			Now:       func() time.Time { return now.Add(time.Hour) },
		},
	}, store
}

func TestSetCommissionPercent(t *testing.T) {
	cases := []struct {
		name    string
		player  string
		percent string
		wantErr error
	}{
		{name: "raise", player: "p-1", percent: "25", wantErr: nil},
		{name: "zero is allowed", player: "p-1", percent: "0", wantErr: nil},
		{name: "negative", player: "p-1", percent: "-1", wantErr: ErrInvalidRequest},
		{name: "above hundred", player: "p-1", percent: "100.01", wantErr: ErrInvalidRequest},
		{name: "unknown player", player: "ghost", percent: "5", wantErr: ports.ErrPlayerNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _ := newUseCase(t, true)
			got, err := uc.SetCommissionPercent(context.Background(), tc.player, decimal.RequireFromString(tc.percent))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			stored, _ := uc.Accounts.GetByPlayerID(context.Background(), tc.player)
			if !got.CommissionPercent.Equal(decimal.RequireFromString(tc.percent)) || !stored.CommissionPercent.Equal(got.CommissionPercent) {
				t.Fatalf("percent not saved: got %s stored %s", got.CommissionPercent, stored.CommissionPercent)
			}
		})
	}
}

func TestAdjustBank_GuardsNegative(t *testing.T) {
	uc, _ := newUseCase(t, true)
	ctx := context.Background()

	got, err := uc.AdjustBank(ctx, "p-1", decimal.RequireFromString("150.005"))
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if !got.BankBalance.Equal(decimal.RequireFromString("150.01")) {
		t.Fatalf("expected 150.01, got %s", got.BankBalance)
	}
	if _, err := uc.AdjustBank(ctx, "p-1", decimal.NewFromInt(-200)); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected negative balance error, got %v", err)
	}
	got, err = uc.AdjustBank(ctx, "p-1", decimal.RequireFromString("-150.01"))
	if err != nil || !got.BankBalance.IsZero() {
		t.Fatalf("expected empty bank, got %s (%v)", got.BankBalance, err)
	}
	if _, err := uc.AdjustBank(ctx, "p-1", decimal.Zero); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request for zero delta, got %v", err)
	}
	if _, err := uc.AdjustBank(ctx, "ghost", decimal.NewFromInt(1)); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreditTaskBalance_AppliesWhileGameDisabled(t *testing.T) {
	uc, _ := newUseCase(t, false)
	ctx := context.Background()

	p, err := uc.CreditTaskBalance(ctx, "p-1", decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if !p.TaskBalance.Equal(decimal.NewFromInt(500)) || p.Version != 2 {
		t.Fatalf("unexpected player: %+v", p)
	}
	if !p.Balance.IsZero() {
		t.Fatalf("credit must not reconcile production, balance=%s", p.Balance)
	}
	if _, err := uc.CreditTaskBalance(ctx, "p-1", decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}
