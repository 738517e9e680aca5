package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNameAccount = "accounts"

// Account mapped from table <accounts>
type Account struct {
	PlayerID          string          `gorm:"column:player_id;primaryKey" json:"player_id"`
	BankBalance       decimal.Decimal `gorm:"column:bank_balance;type:numeric(38,2);not null" json:"bank_balance"`
	CommissionPercent decimal.Decimal `gorm:"column:commission_percent;type:numeric(5,2);not null" json:"commission_percent"`
	ReferrerID        string          `gorm:"column:referrer_id;not null" json:"referrer_id"`
	GrandReferrerID   string          `gorm:"column:grand_referrer_id;not null" json:"grand_referrer_id"`
	Subscribed        bool            `gorm:"column:subscribed;not null" json:"subscribed"`
	CreatedAt         time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName Account's table name
func (*Account) TableName() string {
	return TableNameAccount
}
