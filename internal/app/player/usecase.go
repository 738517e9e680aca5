package player

import (
	"context"
	"errors"
	"time"

	"printbank/internal/app/ledger"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

var (
	ErrInvalidRequest  = errors.New("invalid player request")
	ErrInvalidReferral = errors.New("invalid referral")
)

type InitializeRequest struct {
	PlayerID   string
	ReferrerID string
}

type Response struct {
	Player  economy.Player  `json:"player"`
	Account economy.Account `json:"account"`
}

type UseCase struct {
	TxManager ports.TxManager
	Players   ports.PlayerRepository
	Accounts  ports.AccountRepository
	Ledger    ledger.Ledger
	Now       func() time.Time
}

// Initialize creates the account and economic record of a new player. It is
// idempotent: an existing player is returned as stored.
func (u UseCase) Initialize(ctx context.Context, req InitializeRequest) (Response, error) {
	if u.TxManager == nil || u.Players == nil || u.Accounts == nil || req.PlayerID == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.ReferrerID == req.PlayerID {
		req.ReferrerID = ""
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := u.Accounts.GetByPlayerID(txCtx, req.PlayerID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			account, err = u.newAccount(txCtx, req, now)
			if err != nil {
				return err
			}
			if err := u.Accounts.Create(txCtx, account); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		p, err := u.Players.GetByPlayerID(txCtx, req.PlayerID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			p = economy.NewPlayer(req.PlayerID, now)
			if err := u.Players.Create(txCtx, p); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		out = Response{Player: p, Account: account}
		return nil
	})
	if errors.Is(err, ports.ErrConflict) {
		// lost a creation race; the winner's record is what we return
		return u.load(ctx, req.PlayerID)
	}
	if err != nil {
		return Response{}, err
	}
	return out, nil
}

// Get returns the player, reconciled up to now when reconcile is set and the
// game is enabled.
func (u UseCase) Get(ctx context.Context, playerID string, reconcile bool) (Response, error) {
	if u.Players == nil || u.Accounts == nil || playerID == "" {
		return Response{}, ErrInvalidRequest
	}
	if !reconcile {
		return u.load(ctx, playerID)
	}
	p, err := u.Ledger.Reconcile(ctx, playerID)
	if err != nil {
		return Response{}, err
	}
	account, err := u.Accounts.GetByPlayerID(ctx, playerID)
	if err != nil {
		return Response{}, err
	}
	return Response{Player: p, Account: account}, nil
}

func (u UseCase) load(ctx context.Context, playerID string) (Response, error) {
	p, err := u.Players.GetByPlayerID(ctx, playerID)
	if err != nil {
		return Response{}, err
	}
	account, err := u.Accounts.GetByPlayerID(ctx, playerID)
	if err != nil {
		return Response{}, err
	}
	return Response{Player: p, Account: account}, nil
}

func (u UseCase) newAccount(ctx context.Context, req InitializeRequest, now time.Time) (economy.Account, error) {
	account := economy.Account{
		PlayerID:          req.PlayerID,
		BankBalance:       economy.InitialBankBalance,
		CommissionPercent: economy.DefaultCommissionPercent,
		CreatedAt:         now,
	}
	if req.ReferrerID == "" {
		return account, nil
	}
	referrer, err := u.Accounts.GetByPlayerID(ctx, req.ReferrerID)
	if errors.Is(err, ports.ErrNotFound) {
		return economy.Account{}, ErrInvalidReferral
	}
	if err != nil {
		return economy.Account{}, err
	}
	account.ReferrerID = referrer.PlayerID
	account.GrandReferrerID = referrer.ReferrerID
	return account, nil
}
