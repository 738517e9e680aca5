package daily

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/app/ledger"
	"printbank/internal/domain/economy"
)

type UseCase struct {
	Ledger ledger.Ledger
}

type ClaimResponse struct {
	Player   economy.Player  `json:"player"`
	Credited decimal.Decimal `json:"credited"`
}

// Claim credits today's streak reward to the task balance.
func (u UseCase) Claim(ctx context.Context, playerID string) (ClaimResponse, error) {
	credited := decimal.Zero
	p, err := u.Ledger.Mutate(ctx, "claim_daily", playerID, func(_ context.Context, p *economy.Player, now time.Time) error {
		amount, err := economy.ClaimDaily(p, now)
		if err != nil {
			return err
		}
		credited = amount
		return nil
	})
	if err != nil {
		return ClaimResponse{}, err
	}
	return ClaimResponse{Player: p, Credited: credited}, nil
}

// CreditCaseWin pays one daily reward for a solved mini-game case.
func (u UseCase) CreditCaseWin(ctx context.Context, playerID string) (ClaimResponse, error) {
	credited := decimal.Zero
	p, err := u.Ledger.Mutate(ctx, "case_win", playerID, func(_ context.Context, p *economy.Player, _ time.Time) error {
		amount, err := economy.DailyReward(*p)
		if err != nil {
			return err
		}
		p.TaskBalance = p.TaskBalance.Add(amount).Round(2)
		credited = amount
		return nil
	})
	if err != nil {
		return ClaimResponse{}, err
	}
	return ClaimResponse{Player: p, Credited: credited}, nil
}
