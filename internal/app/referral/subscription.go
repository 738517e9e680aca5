package referral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

var ErrInvalidRequest = errors.New("invalid referral request")

type SubscriptionUseCase struct {
	TxManager ports.TxManager
	Accounts  ports.AccountRepository
	Referrals ports.ReferralRepository
	Flags     ports.GameFlags
	// Bonus is the base amount a confirmed subscription is worth.
	Bonus  decimal.Decimal
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

type SubscriptionResult struct {
	Account  economy.Account  `json:"account"`
	Credited []ReferralCredit `json:"credited"`
}

type ReferralCredit struct {
	ReferrerID string          `json:"referrer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// ConfirmSubscription marks the player subscribed and pays the one-off
// referral bonuses: the player's own welcome bonus and each ancestor's share.
// Every payout is its own transaction guarded by a referral record, so a
// failure for one ancestor neither blocks nor undoes the others.
func (u SubscriptionUseCase) ConfirmSubscription(ctx context.Context, playerID string) (SubscriptionResult, error) {
	if u.TxManager == nil || u.Accounts == nil || u.Referrals == nil || playerID == "" {
		return SubscriptionResult{}, ErrInvalidRequest
	}

	account, err := u.markSubscribed(ctx, playerID)
	if err != nil {
		return SubscriptionResult{}, err
	}

	bonus := u.Bonus
	if u.Flags != nil {
		enabled, err := u.Flags.GameEnabled(ctx)
		if err != nil {
			return SubscriptionResult{}, err
		}
		if !enabled {
			bonus = decimal.Zero
		}
	}

	out := SubscriptionResult{Account: account, Credited: make([]ReferralCredit, 0, 3)}
	if account.ReferrerID == "" {
		return out, nil
	}

	var errs []error
	if credited, err := u.credit(ctx, playerID, playerID, bonus); err != nil {
		errs = append(errs, u.partialFailure(playerID, playerID, err))
	} else if credited != nil {
		out.Credited = append(out.Credited, *credited)
	}

	for _, ancestorID := range []string{account.ReferrerID, account.GrandReferrerID} {
		if ancestorID == "" {
			continue
		}
		ancestor, err := u.Accounts.GetByPlayerID(ctx, ancestorID)
		if err != nil {
			errs = append(errs, u.partialFailure(playerID, ancestorID, err))
			continue
		}
		amount := bonus.Mul(ancestor.CommissionPercent).Div(decimal.NewFromInt(100)).Round(2)
		credited, err := u.credit(ctx, ancestorID, playerID, amount)
		if err != nil {
			errs = append(errs, u.partialFailure(playerID, ancestorID, err))
			continue
		}
		if credited != nil {
			out.Credited = append(out.Credited, *credited)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return out, err
	}
	return out, nil
}

func (u SubscriptionUseCase) markSubscribed(ctx context.Context, playerID string) (economy.Account, error) {
	var out economy.Account
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := u.Accounts.GetByPlayerID(txCtx, playerID)
		if err != nil {
			return err
		}
		if !account.Subscribed {
			account.Subscribed = true
			if err := u.Accounts.Save(txCtx, account); err != nil {
				return err
			}
		}
		out = account
		return nil
	})
	return out, err
}

// credit pays amount to referrerID at most once per referral pair. It
// returns nil when the pair was already paid.
func (u SubscriptionUseCase) credit(ctx context.Context, referrerID, referralID string, amount decimal.Decimal) (*ReferralCredit, error) {
	var out *ReferralCredit
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := u.Referrals.Exists(txCtx, referrerID, referralID)
		if err != nil || exists {
			return err
		}
		err = u.Referrals.Insert(txCtx, ports.ReferralRecord{
			ID:         u.newID(),
			ReferrerID: referrerID,
			ReferralID: referralID,
			Bonus:      amount,
			CreatedAt:  u.now(),
		})
		if err != nil {
			return err
		}
		if amount.IsPositive() {
			if err := u.Accounts.AddBankBalance(txCtx, referrerID, amount); err != nil {
				return err
			}
		}
		out = &ReferralCredit{ReferrerID: referrerID, Amount: amount}
		return nil
	})
	if errors.Is(err, ports.ErrConflict) {
		// a concurrent confirmation inserted the pair first
		return nil, nil
	}
	return out, err
}

func (u SubscriptionUseCase) partialFailure(playerID, referrerID string, err error) error {
	u.logger().Error("referral bonus not credited",
		"player_id", playerID,
		"referrer_id", referrerID,
		"err", err,
	)
	return fmt.Errorf("credit %s for %s: %w", referrerID, playerID, err)
}

func (u SubscriptionUseCase) now() time.Time {
	if u.Now == nil {
		return time.Now().UTC()
	}
	return u.Now().UTC()
}

func (u SubscriptionUseCase) newID() string {
	if u.NewID == nil {
		return uuid.NewString()
	}
	return u.NewID()
}

func (u SubscriptionUseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
