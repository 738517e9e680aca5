package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/adapter/repo/memory"
	"printbank/internal/app/ledger"
	"printbank/internal/domain/economy"
)

func newUseCase(t *testing.T, p economy.Player, bank decimal.Decimal, now time.Time) UseCase {
	t.Helper()
	store := memory.NewStore()
	store.SeedPlayer(p)
	store.SeedAccount(economy.Account{PlayerID: p.PlayerID, BankBalance: bank, CommissionPercent: economy.DefaultCommissionPercent})
	accounts := memory.NewAccountRepo(store)
	return UseCase{
		Accounts: accounts,
		Ledger: ledger.Ledger{
			TxManager:    memory.NewTxManager(store),
			Players:      memory.NewPlayerRepo(store),
			Accounts:     accounts,
			Transactions: memory.NewTransactionRepo(store),
			Commissions:  memory.NewCommissionQueue(store),
			Now:          func() time.Time { return now },
		},
	}
}

func TestBankToBalance_MovesOnlyFreeCapacity(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	p := economy.NewPlayer("p-1", now)
	p.Balance = decimal.NewFromInt(980)
	uc := newUseCase(t, p, decimal.NewFromInt(50), now)
	ctx := context.Background()

	got, err := uc.BankToBalance(ctx, "p-1")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(1000)) || !got.UsedTransferAllowance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected player balance=%s used=%s", got.Balance, got.UsedTransferAllowance)
	}
	account, err := uc.Accounts.GetByPlayerID(ctx, "p-1")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if !account.BankBalance.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected bank 30, got %s", account.BankBalance)
	}

	if _, err := uc.BankToBalance(ctx, "p-1"); !errors.Is(err, economy.ErrFullStorage) {
		t.Fatalf("expected full storage, got %v", err)
	}
	account, _ = uc.Accounts.GetByPlayerID(ctx, "p-1")
	if !account.BankBalance.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("failed transfer must not touch the bank, got %s", account.BankBalance)
	}
}

func TestBankToBalance_LimitReached(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	p := economy.NewPlayer("p-1", now)
	p.UsedTransferAllowance = economy.BankTransferLimit
	uc := newUseCase(t, p, decimal.NewFromInt(50), now)

	if _, err := uc.BankToBalance(context.Background(), "p-1"); !errors.Is(err, economy.ErrLimitReached) {
		t.Fatalf("expected limit reached, got %v", err)
	}
}

func TestTaskToBalance(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	p := economy.NewPlayer("p-1", now)
	p.TaskBalance = decimal.RequireFromString("1200.5")
	uc := newUseCase(t, p, decimal.Zero, now)

	got, err := uc.TaskToBalance(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(1000)) || !got.TaskBalance.Equal(decimal.RequireFromString("200.5")) {
		t.Fatalf("unexpected player balance=%s task=%s", got.Balance, got.TaskBalance)
	}
}

func TestTaskToBalance_NothingToMove(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(t, economy.NewPlayer("p-1", now), decimal.Zero, now)

	if _, err := uc.TaskToBalance(context.Background(), "p-1"); !errors.Is(err, economy.ErrNotEnoughBalance) {
		t.Fatalf("expected not enough balance, got %v", err)
	}
}
