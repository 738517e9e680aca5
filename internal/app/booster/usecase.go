package booster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printbank/internal/app/ledger"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

var (
	ErrInvalidRequest = errors.New("invalid booster request")
	ErrBoostActive    = errors.New("booster of this kind is already active")

	errDuplicate = errors.New("transaction already recorded")
)

type Outcome string

const (
	OutcomeRecorded  Outcome = "recorded"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

type UseCase struct {
	Ledger       ledger.Ledger
	Transactions ports.TransactionRepository
	Purchases    ports.PurchaseCommissionRepository
	Accounts     ports.AccountRepository
	Logger       *slog.Logger
	Now          func() time.Time
	// SaleStart anchors token vesting; zero means economy.DefaultSaleStart.
	SaleStart time.Time
}

type GrantRequest struct {
	PlayerID string
	Kind     string
	Amount   decimal.Decimal
	// Hash identifies the payment; in-app purchases without one get a
	// generated hash.
	Hash string
}

type ExternalTransaction struct {
	Hash          string
	PlayerID      string
	Kind          string
	Amount        decimal.Decimal
	SourceAddress string
	Lt            int64
	UTime         int64
}

// ExternalTransfer is one incoming transfer as fetched from the chain
// explorer. Payload carries "<playerId>,<item>[,<address>]".
type ExternalTransfer struct {
	Hash        string
	Source      string
	Payload     string
	Amount      decimal.Decimal
	Lt          int64
	UTime       int64
	HasOutgoing bool
}

type ActiveBoost struct {
	Booster   economy.Booster `json:"booster"`
	Hash      string          `json:"hash"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// GrantBoost records a booster purchase for the player. Boosts of the same
// kind neither stack nor extend: a second grant while one is active fails.
// Replaying a grant with the hash of a recorded payment returns that grant.
func (u UseCase) GrantBoost(ctx context.Context, req GrantRequest) (ActiveBoost, error) {
	if u.Transactions == nil || u.Ledger.TxManager == nil || req.PlayerID == "" {
		return ActiveBoost{}, ErrInvalidRequest
	}
	b, ok := economy.BoosterFor(req.Kind)
	if !ok {
		return ActiveBoost{}, economy.ErrInvalidBooster
	}
	hash := req.Hash
	if hash == "" {
		hash = uuid.NewString() + "_iap"
	}
	enabled, err := u.Ledger.Enabled(ctx)
	if err != nil {
		return ActiveBoost{}, err
	}

	now := u.now()
	var out ActiveBoost
	err = u.Ledger.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		prior, found, err := u.recordedGrant(txCtx, hash, req.PlayerID, b)
		if err != nil {
			return err
		}
		if found {
			out = prior
			return nil
		}
		active, err := u.HasActiveBoost(txCtx, req.PlayerID, req.Kind)
		if err != nil {
			return err
		}
		if active {
			return ErrBoostActive
		}
		// settle production at the old rate before the boost starts counting
		if enabled {
			if err := u.settle(txCtx, req.PlayerID, now); err != nil {
				return err
			}
		}
		err = u.Transactions.Insert(txCtx, ports.TransactionRecord{
			Hash:      hash,
			PlayerID:  req.PlayerID,
			Item:      b.ID,
			Amount:    req.Amount,
			CreatedAt: now,
		})
		if errors.Is(err, ports.ErrConflict) {
			prior, found, lookupErr := u.recordedGrant(txCtx, hash, req.PlayerID, b)
			if lookupErr != nil {
				return lookupErr
			}
			if found {
				out = prior
				return nil
			}
		}
		if err != nil {
			return err
		}
		out = ActiveBoost{Booster: b, Hash: hash, CreatedAt: now, ExpiresAt: now.Add(b.Duration)}
		return nil
	})
	if err != nil {
		return ActiveBoost{}, err
	}
	return out, nil
}

// recordedGrant looks up a payment hash. A hash recorded for another player
// or item is a conflict.
func (u UseCase) recordedGrant(ctx context.Context, hash, playerID string, b economy.Booster) (ActiveBoost, bool, error) {
	rec, err := u.Transactions.GetByHash(ctx, hash)
	if errors.Is(err, ports.ErrNotFound) {
		return ActiveBoost{}, false, nil
	}
	if err != nil {
		return ActiveBoost{}, false, err
	}
	if rec.PlayerID != playerID || rec.Item != b.ID {
		return ActiveBoost{}, false, fmt.Errorf("%w: hash %s belongs to another grant", ports.ErrConflict, hash)
	}
	return ActiveBoost{Booster: b, Hash: rec.Hash, CreatedAt: rec.CreatedAt, ExpiresAt: rec.CreatedAt.Add(b.Duration)}, true, nil
}

func (u UseCase) HasActiveBoost(ctx context.Context, playerID, kind string) (bool, error) {
	active, err := u.ActiveBoosts(ctx, playerID)
	if err != nil {
		return false, err
	}
	for _, a := range active {
		if a.Booster.ID == kind {
			return true, nil
		}
	}
	return false, nil
}

func (u UseCase) ActiveBoosts(ctx context.Context, playerID string) ([]ActiveBoost, error) {
	if u.Transactions == nil || playerID == "" {
		return nil, ErrInvalidRequest
	}
	now := u.now()
	records, err := u.Transactions.ListByPlayerSince(ctx, playerID, now.Add(-economy.LongestBoost()))
	if err != nil {
		return nil, err
	}
	out := make([]ActiveBoost, 0, len(records))
	for _, r := range records {
		grant := economy.BoostGrant{Item: r.Item, CreatedAt: r.CreatedAt}
		if !grant.Active(now) {
			continue
		}
		b, _ := economy.BoosterFor(r.Item)
		out = append(out, ActiveBoost{Booster: b, Hash: r.Hash, CreatedAt: r.CreatedAt, ExpiresAt: r.CreatedAt.Add(b.Duration)})
	}
	return out, nil
}

// RecordExternalTransaction appends a transaction. A hash that was already
// recorded is a no-op.
func (u UseCase) RecordExternalTransaction(ctx context.Context, tx ExternalTransaction) error {
	_, err := u.record(ctx, tx)
	return err
}

// Ingest filters one fetched transfer and records it when it is a genuine
// purchase.
func (u UseCase) Ingest(ctx context.Context, transfer ExternalTransfer) (Outcome, error) {
	if transfer.Hash == "" || strings.TrimSpace(transfer.Payload) == "" || transfer.HasOutgoing {
		return OutcomeIgnored, nil
	}
	parts := strings.Split(transfer.Payload, ",")
	if len(parts) < 2 {
		return OutcomeIgnored, nil
	}
	playerID := strings.TrimSpace(parts[0])
	item := strings.TrimSpace(parts[1])
	source := transfer.Source
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		source = strings.TrimSpace(parts[2])
	}
	if playerID == "" {
		return OutcomeIgnored, nil
	}

	switch {
	case item == economy.ItemClaim, economy.IsPurchaseItem(item):
	default:
		b, ok := economy.BoosterFor(item)
		if !ok || !transfer.Amount.Equal(b.Price) {
			u.logger().Warn("ignoring transfer", "hash", transfer.Hash, "item", item, "amount", transfer.Amount.String())
			return OutcomeIgnored, nil
		}
	}

	return u.record(ctx, ExternalTransaction{
		Hash:          transfer.Hash,
		PlayerID:      playerID,
		Kind:          item,
		Amount:        transfer.Amount,
		SourceAddress: source,
		Lt:            transfer.Lt,
		UTime:         transfer.UTime,
	})
}

// ReferralRewardTotal sums what the player earned from referrals' token
// purchases.
func (u UseCase) ReferralRewardTotal(ctx context.Context, playerID string) (decimal.Decimal, error) {
	if u.Purchases == nil || playerID == "" {
		return decimal.Zero, ErrInvalidRequest
	}
	return u.Purchases.SumByReferrer(ctx, playerID)
}

// SaleInfo reports the player's token sale allocation from recorded
// purchases and claims.
func (u UseCase) SaleInfo(ctx context.Context, playerID string) (economy.SaleInfo, error) {
	if u.Transactions == nil || playerID == "" {
		return economy.SaleInfo{}, ErrInvalidRequest
	}
	records, err := u.Transactions.ListByPlayerSince(ctx, playerID, time.Time{})
	if err != nil {
		return economy.SaleInfo{}, err
	}
	purchased := map[string]decimal.Decimal{}
	claimed := decimal.Zero
	for _, r := range records {
		switch {
		case r.Item == economy.ItemClaim:
			claimed = claimed.Add(r.Amount)
		case economy.IsPurchaseItem(r.Item):
			purchased[r.Item] = purchased[r.Item].Add(r.Amount)
		}
	}
	start := u.SaleStart
	if start.IsZero() {
		start = economy.DefaultSaleStart
	}
	return economy.ComputeSaleInfo(purchased, claimed, start, u.now()), nil
}

func (u UseCase) record(ctx context.Context, tx ExternalTransaction) (Outcome, error) {
	if u.Transactions == nil || u.Ledger.TxManager == nil || tx.Hash == "" || tx.PlayerID == "" {
		return "", ErrInvalidRequest
	}
	enabled, err := u.Ledger.Enabled(ctx)
	if err != nil {
		return "", err
	}
	_, isBooster := economy.BoosterFor(tx.Kind)

	now := u.now()
	err = u.Ledger.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if isBooster && enabled {
			if err := u.settle(txCtx, tx.PlayerID, now); err != nil {
				return err
			}
		}
		err := u.Transactions.Insert(txCtx, ports.TransactionRecord{
			Hash:          tx.Hash,
			PlayerID:      tx.PlayerID,
			Item:          tx.Kind,
			Amount:        tx.Amount,
			Lt:            tx.Lt,
			UTime:         tx.UTime,
			SourceAddress: tx.SourceAddress,
			CreatedAt:     now,
		})
		if errors.Is(err, ports.ErrConflict) {
			return errDuplicate
		}
		if err != nil {
			return err
		}
		if economy.IsPurchaseItem(tx.Kind) {
			return u.payPurchaseCommission(txCtx, tx, now)
		}
		return nil
	})
	if errors.Is(err, errDuplicate) {
		return OutcomeDuplicate, nil
	}
	if err != nil {
		return "", err
	}
	return OutcomeRecorded, nil
}

func (u UseCase) payPurchaseCommission(ctx context.Context, tx ExternalTransaction, now time.Time) error {
	if u.Purchases == nil || u.Accounts == nil {
		return nil
	}
	buyer, err := u.Accounts.GetByPlayerID(ctx, tx.PlayerID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if buyer.ReferrerID == "" {
		return nil
	}
	referrer, err := u.Accounts.GetByPlayerID(ctx, buyer.ReferrerID)
	if errors.Is(err, ports.ErrNotFound) {
		u.logger().Warn("purchase referrer missing", "hash", tx.Hash, "referrer_id", buyer.ReferrerID)
		return nil
	}
	if err != nil {
		return err
	}
	bonus := economy.PurchaseCommission(tx.Amount, referrer.CommissionPercent)
	if !bonus.IsPositive() {
		return nil
	}
	return u.Purchases.Insert(ctx, ports.PurchaseCommission{
		Hash:       tx.Hash,
		ReferrerID: referrer.PlayerID,
		ReferralID: tx.PlayerID,
		Bonus:      bonus,
		CreatedAt:  now,
	})
}

// settle reconciles and saves the player inside the caller's transaction.
// Payments for players that never initialized are recorded as is.
func (u UseCase) settle(ctx context.Context, playerID string, now time.Time) error {
	players := u.Ledger.Players
	if players == nil {
		return nil
	}
	current, err := players.GetByPlayerID(ctx, playerID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	next := current
	if err := u.Ledger.ReconcileInTx(ctx, &next, now); err != nil {
		return err
	}
	next.Version = current.Version + 1
	return players.SaveWithVersion(ctx, next, current.Version)
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now().UTC()
	}
	return u.Now().UTC()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
