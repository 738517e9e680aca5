package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/domain/economy"
)

type PlayerRepository interface {
	Create(ctx context.Context, player economy.Player) error
	GetByPlayerID(ctx context.Context, playerID string) (economy.Player, error)
	SaveWithVersion(ctx context.Context, player economy.Player, expectedVersion int64) error
	TopByTotal(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type LeaderboardEntry struct {
	PlayerID string          `json:"player_id"`
	Total    decimal.Decimal `json:"total"`
	Rank     economy.Rank    `json:"rank"`
}

type AccountRepository interface {
	Create(ctx context.Context, account economy.Account) error
	GetByPlayerID(ctx context.Context, playerID string) (economy.Account, error)
	Save(ctx context.Context, account economy.Account) error
	// AddBankBalance applies delta atomically. It returns ErrConflict when
	// the result would be negative.
	AddBankBalance(ctx context.Context, playerID string, delta decimal.Decimal) error
}

type ReferralRecord struct {
	ID         string
	ReferrerID string
	ReferralID string
	Bonus      decimal.Decimal
	CreatedAt  time.Time
}

type ReferralRepository interface {
	Exists(ctx context.Context, referrerID, referralID string) (bool, error)
	Insert(ctx context.Context, record ReferralRecord) error
	ListByReferrer(ctx context.Context, referrerID string) ([]ReferralRecord, error)
}

type CreditStatus string

const (
	CreditPending   CreditStatus = "pending"
	CreditDelivered CreditStatus = "delivered"
	CreditDead      CreditStatus = "dead"
)

// CommissionCredit is one pending payout to one ancestor referrer.
type CommissionCredit struct {
	ID          string
	ReferrerID  string
	ReferralID  string
	Amount      decimal.Decimal
	Depth       int
	Status      CreditStatus
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	DeliveredAt *time.Time
}

type CommissionQueue interface {
	Enqueue(ctx context.Context, credits ...CommissionCredit) error
	ListPending(ctx context.Context, limit int) ([]CommissionCredit, error)
	// MarkDelivered returns ErrConflict if the credit is no longer pending.
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id, lastErr string, dead bool) error
}

type TransactionRecord struct {
	Hash          string
	PlayerID      string
	Item          string
	Amount        decimal.Decimal
	Lt            int64
	UTime         int64
	SourceAddress string
	CreatedAt     time.Time
}

type TransactionRepository interface {
	// Insert returns ErrConflict when the hash is already recorded.
	Insert(ctx context.Context, record TransactionRecord) error
	GetByHash(ctx context.Context, hash string) (TransactionRecord, error)
	ListByPlayerSince(ctx context.Context, playerID string, since time.Time) ([]TransactionRecord, error)
}

type PurchaseCommission struct {
	Hash       string
	ReferrerID string
	ReferralID string
	Bonus      decimal.Decimal
	CreatedAt  time.Time
}

type PurchaseCommissionRepository interface {
	Insert(ctx context.Context, record PurchaseCommission) error
	SumByReferrer(ctx context.Context, referrerID string) (decimal.Decimal, error)
}

type TaskRecord struct {
	ID                   string
	Title                string
	Link                 string
	ChannelID            string
	Bonus                decimal.Decimal
	RewardedMinutes      int64
	CompletionLimit      int
	CompletedTimes       int
	ConfirmationDisabled bool
	Langs                []string
	Exp                  int64
	CreatedAt            time.Time
}

type TaskRepository interface {
	Create(ctx context.Context, task TaskRecord) error
	Get(ctx context.Context, taskID string) (TaskRecord, error)
	List(ctx context.Context) ([]TaskRecord, error)
	Save(ctx context.Context, task TaskRecord) error
	Delete(ctx context.Context, taskID string) error
}

type TaskCompletion struct {
	PlayerID  string
	TaskID    string
	Bonus     decimal.Decimal
	CreatedAt time.Time
}

type TaskCompletionRepository interface {
	// Insert returns ErrConflict when the player already completed the task.
	Insert(ctx context.Context, completion TaskCompletion) error
	Exists(ctx context.Context, playerID, taskID string) (bool, error)
	ListByPlayer(ctx context.Context, playerID string) ([]TaskCompletion, error)
}
