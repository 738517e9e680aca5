package gormrepo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printbank/internal/adapter/repo/gorm/model"
	"printbank/internal/app/ports"
)

type TransactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepo {
	return TransactionRepo{db: db}
}

func (r TransactionRepo) Insert(ctx context.Context, record ports.TransactionRecord) error {
	m := model.Transaction{
		Hash:          record.Hash,
		PlayerID:      record.PlayerID,
		Item:          record.Item,
		Amount:        record.Amount,
		Lt:            record.Lt,
		Utime:         record.UTime,
		SourceAddress: record.SourceAddress,
		CreatedAt:     record.CreatedAt,
	}
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r TransactionRepo) GetByHash(ctx context.Context, hash string) (ports.TransactionRecord, error) {
	var m model.Transaction
	if err := getDBFromCtx(ctx, r.db).Where("hash = ?", hash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TransactionRecord{}, ports.ErrNotFound
		}
		return ports.TransactionRecord{}, err
	}
	return fromTransactionModel(m), nil
}

func (r TransactionRepo) ListByPlayerSince(ctx context.Context, playerID string, since time.Time) ([]ports.TransactionRecord, error) {
	rows := []model.Transaction{}
	err := getDBFromCtx(ctx, r.db).
		Where("player_id = ? AND created_at >= ?", playerID, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromTransactionModel(row))
	}
	return out, nil
}

func fromTransactionModel(m model.Transaction) ports.TransactionRecord {
	return ports.TransactionRecord{
		Hash:          m.Hash,
		PlayerID:      m.PlayerID,
		Item:          m.Item,
		Amount:        m.Amount,
		Lt:            m.Lt,
		UTime:         m.Utime,
		SourceAddress: m.SourceAddress,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

type PurchaseCommissionRepo struct {
	db *gorm.DB
}

func NewPurchaseCommissionRepo(db *gorm.DB) PurchaseCommissionRepo {
	return PurchaseCommissionRepo{db: db}
}

func (r PurchaseCommissionRepo) Insert(ctx context.Context, record ports.PurchaseCommission) error {
	m := model.PurchaseCommission{
		Hash:       record.Hash,
		ReferrerID: record.ReferrerID,
		ReferralID: record.ReferralID,
		Bonus:      record.Bonus,
		CreatedAt:  record.CreatedAt,
	}
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r PurchaseCommissionRepo) SumByReferrer(ctx context.Context, referrerID string) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := getDBFromCtx(ctx, r.db).Model(&model.PurchaseCommission{}).
		Select("SUM(bonus) AS total").
		Where("referrer_id = ?", referrerID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}
