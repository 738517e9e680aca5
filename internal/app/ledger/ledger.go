package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

const maxAttempts = 3

var ErrInvalidRequest = errors.New("invalid ledger request")

// Mutation changes a reconciled player inside the ledger transaction. ctx
// carries the transaction; any error aborts it.
type Mutation func(ctx context.Context, p *economy.Player, now time.Time) error

// Ledger owns the reconcile-then-mutate protocol: every write loads the
// player, brings production forward to now, applies the mutation and saves
// with a version check, all in one transaction.
type Ledger struct {
	TxManager    ports.TxManager
	Players      ports.PlayerRepository
	Accounts     ports.AccountRepository
	Transactions ports.TransactionRepository
	Commissions  ports.CommissionQueue
	Flags        ports.GameFlags
	Metrics      ports.OperationMetrics
	Logger       *slog.Logger
	Now          func() time.Time
	NewID        func() string
}

// Mutate reconciles the player and applies fn. When the game is disabled it
// returns the stored record untouched.
func (l Ledger) Mutate(ctx context.Context, op, playerID string, fn Mutation) (economy.Player, error) {
	return l.run(ctx, op, playerID, true, true, fn)
}

// Update applies fn without reconciling first.
func (l Ledger) Update(ctx context.Context, op, playerID string, fn Mutation) (economy.Player, error) {
	return l.run(ctx, op, playerID, false, true, fn)
}

// Adjust applies an operator correction. It skips reconciliation and is not
// held back by a disabled game.
func (l Ledger) Adjust(ctx context.Context, op, playerID string, fn Mutation) (economy.Player, error) {
	return l.run(ctx, op, playerID, false, false, fn)
}

// Reconcile persists accrued production up to now.
func (l Ledger) Reconcile(ctx context.Context, playerID string) (economy.Player, error) {
	return l.run(ctx, "reconcile", playerID, true, true, nil)
}

func (l Ledger) Get(ctx context.Context, playerID string) (economy.Player, error) {
	if l.Players == nil || playerID == "" {
		return economy.Player{}, ErrInvalidRequest
	}
	return l.Players.GetByPlayerID(ctx, playerID)
}

// Enabled reports the game flag; a ledger without flags is always enabled.
func (l Ledger) Enabled(ctx context.Context) (bool, error) {
	if l.Flags == nil {
		return true, nil
	}
	return l.Flags.GameEnabled(ctx)
}

// ReconcileInTx brings p forward to now inside the caller's transaction.
// The caller is responsible for saving p.
func (l Ledger) ReconcileInTx(ctx context.Context, p *economy.Player, now time.Time) error {
	boost, err := l.boostPercent(ctx, p.PlayerID, now)
	if err != nil {
		return err
	}
	accrual, err := economy.Reconcile(*p, now, boost)
	if err != nil {
		l.logFault("reconcile", p, err)
		return err
	}
	p.Balance = accrual.Balance
	p.RawMaterial = accrual.RawMaterial
	p.LastSnapshotAt = now
	if !accrual.Produced.IsPositive() {
		return nil
	}
	return l.enqueueCommissions(ctx, p.PlayerID, accrual.Produced, now)
}

func (l Ledger) run(ctx context.Context, op, playerID string, reconcile, gated bool, fn Mutation) (economy.Player, error) {
	if l.TxManager == nil || l.Players == nil || playerID == "" {
		return economy.Player{}, ErrInvalidRequest
	}

	var err error
	if gated {
		enabled, err := l.Enabled(ctx)
		if err != nil {
			return economy.Player{}, err
		}
		if !enabled {
			return l.Players.GetByPlayerID(ctx, playerID)
		}
	}

	var out economy.Player
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			current, err := l.Players.GetByPlayerID(txCtx, playerID)
			if err != nil {
				return err
			}
			now := l.now()
			next := current
			if reconcile {
				if err := l.ReconcileInTx(txCtx, &next, now); err != nil {
					return err
				}
			}
			if fn != nil {
				if err := fn(txCtx, &next, now); err != nil {
					if errors.Is(err, economy.ErrConfiguration) {
						l.logFault(op, &next, err)
					}
					return err
				}
			}
			next.Version = current.Version + 1
			if err := l.Players.SaveWithVersion(txCtx, next, current.Version); err != nil {
				return err
			}
			out = next
			return nil
		})
		if !errors.Is(err, ports.ErrConflict) {
			break
		}
		l.logger().Warn("ledger version conflict", "op", op, "player_id", playerID, "attempt", attempt)
	}

	l.record(op, err)
	if err != nil {
		return economy.Player{}, err
	}
	return out, nil
}

func (l Ledger) boostPercent(ctx context.Context, playerID string, now time.Time) (decimal.Decimal, error) {
	if l.Transactions == nil {
		return decimal.Zero, nil
	}
	records, err := l.Transactions.ListByPlayerSince(ctx, playerID, now.Add(-economy.LongestBoost()))
	if err != nil {
		return decimal.Zero, err
	}
	grants := make([]economy.BoostGrant, 0, len(records))
	for _, r := range records {
		grants = append(grants, economy.BoostGrant{Item: r.Item, CreatedAt: r.CreatedAt})
	}
	return economy.BoostPercent(grants, now), nil
}

// enqueueCommissions writes one pending credit per ancestor. Delivery
// happens later, each credit on its own.
func (l Ledger) enqueueCommissions(ctx context.Context, playerID string, produced decimal.Decimal, now time.Time) error {
	if l.Accounts == nil || l.Commissions == nil {
		return nil
	}
	account, err := l.Accounts.GetByPlayerID(ctx, playerID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	ancestors := []string{account.ReferrerID, account.GrandReferrerID}
	credits := make([]ports.CommissionCredit, 0, len(ancestors))
	for i, referrerID := range ancestors {
		if referrerID == "" {
			continue
		}
		referrer, err := l.Accounts.GetByPlayerID(ctx, referrerID)
		if errors.Is(err, ports.ErrNotFound) {
			l.logger().Warn("commission referrer missing", "player_id", playerID, "referrer_id", referrerID)
			continue
		}
		if err != nil {
			return err
		}
		amount := economy.Commission(produced, referrer.CommissionPercent)
		if !amount.IsPositive() {
			continue
		}
		credits = append(credits, ports.CommissionCredit{
			ID:         l.newID(),
			ReferrerID: referrerID,
			ReferralID: playerID,
			Amount:     amount,
			Depth:      i + 1,
			Status:     ports.CreditPending,
			CreatedAt:  now,
		})
	}
	if len(credits) == 0 {
		return nil
	}
	return l.Commissions.Enqueue(ctx, credits...)
}

func (l Ledger) record(op string, err error) {
	if l.Metrics == nil {
		return
	}
	switch {
	case err == nil:
		l.Metrics.RecordSuccess(op)
	case errors.Is(err, ports.ErrConflict):
		l.Metrics.RecordConflict(op)
	default:
		l.Metrics.RecordFailure(op)
	}
}

func (l Ledger) logFault(op string, p *economy.Player, err error) {
	l.logger().Error("economy configuration fault",
		"op", op,
		"player_id", p.PlayerID,
		"money_storage_level", p.MoneyStorageLevel,
		"material_storage_level", p.MaterialStorageLevel,
		"production_rate_level", p.ProductionRateLevel,
		"unit_value_level", p.UnitValueLevel,
		"err", err,
	)
}

func (l Ledger) now() time.Time {
	if l.Now == nil {
		return time.Now().UTC()
	}
	return l.Now().UTC()
}

func (l Ledger) newID() string {
	if l.NewID == nil {
		return uuid.NewString()
	}
	return l.NewID()
}

func (l Ledger) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
