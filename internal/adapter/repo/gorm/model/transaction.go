package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNameTransaction = "transactions"

// Transaction mapped from table <transactions>
type Transaction struct {
	Hash          string          `gorm:"column:hash;primaryKey" json:"hash"`
	PlayerID      string          `gorm:"column:player_id;not null" json:"player_id"`
	Item          string          `gorm:"column:item;not null" json:"item"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(38,2);not null" json:"amount"`
	Lt            int64           `gorm:"column:lt;not null" json:"lt"`
	Utime         int64           `gorm:"column:utime;not null" json:"utime"`
	SourceAddress string          `gorm:"column:source_address;not null" json:"source_address"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName Transaction's table name
func (*Transaction) TableName() string {
	return TableNameTransaction
}
