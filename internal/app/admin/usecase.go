package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/app/ledger"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

var (
	ErrInvalidRequest  = errors.New("invalid admin request")
	ErrNegativeBalance = errors.New("balance cannot be lower than 0")
)

var maxCommissionPercent = decimal.NewFromInt(100)

// UseCase holds operator corrections to accounts and balances.
type UseCase struct {
	TxManager ports.TxManager
	Accounts  ports.AccountRepository
	Ledger    ledger.Ledger
	Logger    *slog.Logger
}

// SetCommissionPercent changes the share a referrer earns from referrals.
func (u UseCase) SetCommissionPercent(ctx context.Context, playerID string, percent decimal.Decimal) (economy.Account, error) {
	if u.TxManager == nil || u.Accounts == nil || playerID == "" {
		return economy.Account{}, ErrInvalidRequest
	}
	if percent.IsNegative() || percent.GreaterThan(maxCommissionPercent) {
		return economy.Account{}, ErrInvalidRequest
	}

	var out economy.Account
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := u.Accounts.GetByPlayerID(txCtx, playerID)
		if err != nil {
			return err
		}
		account.CommissionPercent = percent.Round(2)
		if err := u.Accounts.Save(txCtx, account); err != nil {
			return err
		}
		out = account
		return nil
	})
	if err != nil {
		return economy.Account{}, err
	}
	u.logger().Info("commission percent changed", "player_id", playerID, "percent", out.CommissionPercent.String())
	return out, nil
}

// AdjustBank credits or debits the referral bank. A debit that would leave
// it negative fails with ErrNegativeBalance.
func (u UseCase) AdjustBank(ctx context.Context, playerID string, delta decimal.Decimal) (economy.Account, error) {
	if u.Accounts == nil || playerID == "" {
		return economy.Account{}, ErrInvalidRequest
	}
	delta = delta.Round(2)
	if delta.IsZero() {
		return economy.Account{}, ErrInvalidRequest
	}
	err := u.Accounts.AddBankBalance(ctx, playerID, delta)
	if errors.Is(err, ports.ErrConflict) {
		return economy.Account{}, ErrNegativeBalance
	}
	if err != nil {
		return economy.Account{}, err
	}
	u.logger().Info("bank adjusted", "player_id", playerID, "delta", delta.String())
	return u.Accounts.GetByPlayerID(ctx, playerID)
}

// CreditTaskBalance adds amount to the player's task balance.
func (u UseCase) CreditTaskBalance(ctx context.Context, playerID string, amount decimal.Decimal) (economy.Player, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return economy.Player{}, ErrInvalidRequest
	}
	p, err := u.Ledger.Adjust(ctx, "admin_credit_task", playerID, func(_ context.Context, p *economy.Player, _ time.Time) error {
		p.TaskBalance = p.TaskBalance.Add(amount)
		return nil
	})
	if err != nil {
		return economy.Player{}, err
	}
	u.logger().Info("task balance credited", "player_id", playerID, "amount", amount.String())
	return p, nil
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
