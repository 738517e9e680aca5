package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNamePlayer = "players"

// Player mapped from table <players>
type Player struct {
	PlayerID              string          `gorm:"column:player_id;primaryKey" json:"player_id"`
	Balance               decimal.Decimal `gorm:"column:balance;type:numeric(38,2);not null" json:"balance"`
	TaskBalance           decimal.Decimal `gorm:"column:task_balance;type:numeric(38,2);not null" json:"task_balance"`
	RawMaterial           decimal.Decimal `gorm:"column:raw_material;type:numeric(38,2);not null" json:"raw_material"`
	UsedTransferAllowance decimal.Decimal `gorm:"column:used_transfer_allowance;type:numeric(38,2);not null" json:"used_transfer_allowance"`
	MoneyStorageLevel     int32           `gorm:"column:money_storage_level;not null;default:1" json:"money_storage_level"`
	MaterialStorageLevel  int32           `gorm:"column:material_storage_level;not null;default:1" json:"material_storage_level"`
	ProductionRateLevel   int32           `gorm:"column:production_rate_level;not null;default:1" json:"production_rate_level"`
	UnitValueLevel        int32           `gorm:"column:unit_value_level;not null;default:1" json:"unit_value_level"`
	Rank                  string          `gorm:"column:rank;not null" json:"rank"`
	Experience            int64           `gorm:"column:experience;not null" json:"experience"`
	DailyStreak           int32           `gorm:"column:daily_streak;not null" json:"daily_streak"`
	LastClaimedAt         *time.Time      `gorm:"column:last_claimed_at" json:"last_claimed_at"`
	LastSnapshotAt        time.Time       `gorm:"column:last_snapshot_at;not null" json:"last_snapshot_at"`
	Version               int64           `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt             time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName Player's table name
func (*Player) TableName() string {
	return TableNamePlayer
}
