package referral

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type ProfileUseCase struct {
	Accounts  ports.AccountRepository
	Referrals ports.ReferralRepository
	Purchases ports.PurchaseCommissionRepository
}

type Profile struct {
	Account   economy.Account `json:"account"`
	Referrals []Referral      `json:"referrals"`
	// SubscriptionEarnings sums the bonuses paid for the listed referrals.
	SubscriptionEarnings decimal.Decimal `json:"subscription_earnings"`
	PurchaseEarnings     decimal.Decimal `json:"purchase_earnings"`
}

type Referral struct {
	PlayerID  string          `json:"player_id"`
	Bonus     decimal.Decimal `json:"bonus"`
	CreatedAt time.Time       `json:"created_at"`
}

// Profile returns the player's bank account with everyone they brought in.
func (u ProfileUseCase) Profile(ctx context.Context, playerID string) (Profile, error) {
	if u.Accounts == nil || u.Referrals == nil || playerID == "" {
		return Profile{}, ErrInvalidRequest
	}
	account, err := u.Accounts.GetByPlayerID(ctx, playerID)
	if err != nil {
		return Profile{}, err
	}
	records, err := u.Referrals.ListByReferrer(ctx, playerID)
	if err != nil {
		return Profile{}, err
	}

	out := Profile{
		Account:              account,
		Referrals:            make([]Referral, 0, len(records)),
		SubscriptionEarnings: decimal.Zero,
		PurchaseEarnings:     decimal.Zero,
	}
	for _, r := range records {
		out.Referrals = append(out.Referrals, Referral{PlayerID: r.ReferralID, Bonus: r.Bonus, CreatedAt: r.CreatedAt})
		out.SubscriptionEarnings = out.SubscriptionEarnings.Add(r.Bonus)
	}
	if u.Purchases != nil {
		out.PurchaseEarnings, err = u.Purchases.SumByReferrer(ctx, playerID)
		if err != nil {
			return Profile{}, err
		}
	}
	return out, nil
}
