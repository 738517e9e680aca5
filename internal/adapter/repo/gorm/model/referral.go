package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableNameReferral           = "referrals"
	TableNameCommissionCredit   = "commission_credits"
	TableNamePurchaseCommission = "purchase_commissions"
)

// Referral mapped from table <referrals>
type Referral struct {
	ID         string          `gorm:"column:id;primaryKey" json:"id"`
	ReferrerID string          `gorm:"column:referrer_id;not null" json:"referrer_id"`
	ReferralID string          `gorm:"column:referral_id;not null" json:"referral_id"`
	Bonus      decimal.Decimal `gorm:"column:bonus;type:numeric(38,2);not null" json:"bonus"`
	CreatedAt  time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName Referral's table name
func (*Referral) TableName() string {
	return TableNameReferral
}

// CommissionCredit mapped from table <commission_credits>
type CommissionCredit struct {
	ID          string          `gorm:"column:id;primaryKey" json:"id"`
	ReferrerID  string          `gorm:"column:referrer_id;not null" json:"referrer_id"`
	ReferralID  string          `gorm:"column:referral_id;not null" json:"referral_id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(38,2);not null" json:"amount"`
	Depth       int32           `gorm:"column:depth;not null" json:"depth"`
	Status      string          `gorm:"column:status;not null;default:pending" json:"status"`
	Attempts    int32           `gorm:"column:attempts;not null" json:"attempts"`
	LastError   string          `gorm:"column:last_error;not null" json:"last_error"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	DeliveredAt *time.Time      `gorm:"column:delivered_at" json:"delivered_at"`
}

// TableName CommissionCredit's table name
func (*CommissionCredit) TableName() string {
	return TableNameCommissionCredit
}

// PurchaseCommission mapped from table <purchase_commissions>
type PurchaseCommission struct {
	Hash       string          `gorm:"column:hash;primaryKey" json:"hash"`
	ReferrerID string          `gorm:"column:referrer_id;not null" json:"referrer_id"`
	ReferralID string          `gorm:"column:referral_id;not null" json:"referral_id"`
	Bonus      decimal.Decimal `gorm:"column:bonus;type:numeric(38,2);not null" json:"bonus"`
	CreatedAt  time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName PurchaseCommission's table name
func (*PurchaseCommission) TableName() string {
	return TableNamePurchaseCommission
}
