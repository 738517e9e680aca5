package transfer

import (
	"context"
	"errors"
	"time"

	"printbank/internal/app/ledger"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

var ErrInvalidRequest = errors.New("invalid transfer request")

type UseCase struct {
	Ledger   ledger.Ledger
	Accounts ports.AccountRepository
}

// BankToBalance moves referral earnings from the bank into the balance. The
// bank debit and the player save commit together.
func (u UseCase) BankToBalance(ctx context.Context, playerID string) (economy.Player, error) {
	if u.Accounts == nil {
		return economy.Player{}, ErrInvalidRequest
	}
	return u.Ledger.Mutate(ctx, "transfer_bank", playerID, func(txCtx context.Context, p *economy.Player, _ time.Time) error {
		account, err := u.Accounts.GetByPlayerID(txCtx, p.PlayerID)
		if err != nil {
			return err
		}
		moved, err := economy.TransferFromBank(p, account.BankBalance)
		if err != nil {
			return err
		}
		return u.Accounts.AddBankBalance(txCtx, p.PlayerID, moved.Neg())
	})
}

func (u UseCase) TaskToBalance(ctx context.Context, playerID string) (economy.Player, error) {
	return u.Ledger.Mutate(ctx, "transfer_task", playerID, func(_ context.Context, p *economy.Player, _ time.Time) error {
		_, err := economy.TransferFromTask(p)
		return err
	})
}
