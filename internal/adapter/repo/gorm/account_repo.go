package gormrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printbank/internal/adapter/repo/gorm/model"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type AccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return AccountRepo{db: db}
}

func (r AccountRepo) Create(ctx context.Context, a economy.Account) error {
	m := toAccountModel(a)
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r AccountRepo) GetByPlayerID(ctx context.Context, playerID string) (economy.Account, error) {
	var m model.Account
	if err := getDBFromCtx(ctx, r.db).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return economy.Account{}, ports.ErrPlayerNotFound
		}
		return economy.Account{}, err
	}
	return economy.Account{
		PlayerID:          m.PlayerID,
		BankBalance:       m.BankBalance,
		CommissionPercent: m.CommissionPercent,
		ReferrerID:        m.ReferrerID,
		GrandReferrerID:   m.GrandReferrerID,
		Subscribed:        m.Subscribed,
		CreatedAt:         m.CreatedAt.UTC(),
	}, nil
}

func (r AccountRepo) Save(ctx context.Context, a economy.Account) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.Account{}).
		Where("player_id = ?", a.PlayerID).
		Updates(map[string]any{
			"bank_balance":       a.BankBalance,
			"commission_percent": a.CommissionPercent,
			"referrer_id":        a.ReferrerID,
			"grand_referrer_id":  a.GrandReferrerID,
			"subscribed":         a.Subscribed,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrPlayerNotFound
	}
	return nil
}

// AddBankBalance applies the delta in a single guarded UPDATE so concurrent
// credits never lose writes.
func (r AccountRepo) AddBankBalance(ctx context.Context, playerID string, delta decimal.Decimal) error {
	db := getDBFromCtx(ctx, r.db)
	res := db.Model(&model.Account{}).
		Where("player_id = ? AND bank_balance + ? >= 0", playerID, delta).
		Update("bank_balance", gorm.Expr("bank_balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&model.Account{}).Where("player_id = ?", playerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrPlayerNotFound
	}
	return ports.ErrConflict
}

func toAccountModel(a economy.Account) model.Account {
	return model.Account{
		PlayerID:          a.PlayerID,
		BankBalance:       a.BankBalance,
		CommissionPercent: a.CommissionPercent,
		ReferrerID:        a.ReferrerID,
		GrandReferrerID:   a.GrandReferrerID,
		Subscribed:        a.Subscribed,
		CreatedAt:         a.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
