package economy

import (
	"time"

	"github.com/shopspring/decimal"
)

type Entity string

const (
	EntityMoneyStorage    Entity = "money_storage"
	EntityMaterialStorage Entity = "material_storage"
	EntityProductionRate  Entity = "production_rate"
	EntityUnitValue       Entity = "unit_value"
)

type Rank string

const (
	RankBronzeMedal Rank = "bronze_medal"
	RankSilverMedal Rank = "silver_medal"
	RankGoldMedal   Rank = "gold_medal"
	RankBronzeCup   Rank = "bronze_cup"
	RankSilverCup   Rank = "silver_cup"
	RankGoldCup     Rank = "gold_cup"
)

type PackSize string

const (
	PackBase   PackSize = "base"
	PackMedium PackSize = "medium"
	PackLarge  PackSize = "large"
)

// Player is the economic record of one player. Balance and RawMaterial are
// only valid as of LastSnapshotAt.
type Player struct {
	PlayerID              string          `json:"player_id"`
	Balance               decimal.Decimal `json:"balance"`
	TaskBalance           decimal.Decimal `json:"task_balance"`
	RawMaterial           decimal.Decimal `json:"raw_material"`
	UsedTransferAllowance decimal.Decimal `json:"used_transfer_allowance"`
	MoneyStorageLevel     int             `json:"money_storage_level"`
	MaterialStorageLevel  int             `json:"material_storage_level"`
	ProductionRateLevel   int             `json:"production_rate_level"`
	UnitValueLevel        int             `json:"unit_value_level"`
	Rank                  Rank            `json:"rank"`
	Experience            int64           `json:"experience"`
	DailyStreak           int             `json:"daily_streak"`
	LastClaimedAt         *time.Time      `json:"last_claimed_at,omitempty"`
	LastSnapshotAt        time.Time       `json:"last_snapshot_at"`
	Version               int64           `json:"version"`
	CreatedAt             time.Time       `json:"created_at"`
}

// Account is the bank side of a player: referral earnings land here and can
// be moved into the storage-bounded balance.
type Account struct {
	PlayerID          string          `json:"player_id"`
	BankBalance       decimal.Decimal `json:"bank_balance"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	ReferrerID        string          `json:"referrer_id,omitempty"`
	GrandReferrerID   string          `json:"grand_referrer_id,omitempty"`
	Subscribed        bool            `json:"subscribed"`
	CreatedAt         time.Time       `json:"created_at"`
}

// NewPlayer returns the record a player starts the game with.
func NewPlayer(playerID string, now time.Time) Player {
	return Player{
		PlayerID:              playerID,
		Balance:               decimal.Zero,
		TaskBalance:           decimal.Zero,
		RawMaterial:           InitialRawMaterial,
		UsedTransferAllowance: decimal.Zero,
		MoneyStorageLevel:     1,
		MaterialStorageLevel:  1,
		ProductionRateLevel:   1,
		UnitValueLevel:        1,
		Rank:                  RankBronzeMedal,
		LastSnapshotAt:        now,
		Version:               1,
		CreatedAt:             now,
	}
}

func (p Player) Level(entity Entity) (int, error) {
	switch entity {
	case EntityMoneyStorage:
		return p.MoneyStorageLevel, nil
	case EntityMaterialStorage:
		return p.MaterialStorageLevel, nil
	case EntityProductionRate:
		return p.ProductionRateLevel, nil
	case EntityUnitValue:
		return p.UnitValueLevel, nil
	default:
		return 0, invalidEntity(entity)
	}
}

func (p *Player) setLevel(entity Entity, level int) {
	switch entity {
	case EntityMoneyStorage:
		p.MoneyStorageLevel = level
	case EntityMaterialStorage:
		p.MaterialStorageLevel = level
	case EntityProductionRate:
		p.ProductionRateLevel = level
	case EntityUnitValue:
		p.UnitValueLevel = level
	}
}

// CurrentRank treats records written before ranks existed as bronze.
func (p Player) CurrentRank() Rank {
	if p.Rank == "" {
		return RankBronzeMedal
	}
	return p.Rank
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
