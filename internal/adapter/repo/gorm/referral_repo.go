package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printbank/internal/adapter/repo/gorm/model"
	"printbank/internal/app/ports"
)

type ReferralRepo struct {
	db *gorm.DB
}

func NewReferralRepo(db *gorm.DB) ReferralRepo {
	return ReferralRepo{db: db}
}

func (r ReferralRepo) Exists(ctx context.Context, referrerID, referralID string) (bool, error) {
	var count int64
	err := getDBFromCtx(ctx, r.db).Model(&model.Referral{}).
		Where("referrer_id = ? AND referral_id = ?", referrerID, referralID).
		Count(&count).Error
	return count > 0, err
}

func (r ReferralRepo) Insert(ctx context.Context, record ports.ReferralRecord) error {
	m := model.Referral{
		ID:         record.ID,
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

func (r ReferralRepo) ListByReferrer(ctx context.Context, referrerID string) ([]ports.ReferralRecord, error) {
	rows := []model.Referral{}
	err := getDBFromCtx(ctx, r.db).
		Where("referrer_id = ? AND referral_id <> referrer_id", referrerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.ReferralRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.ReferralRecord{
			ID:         row.ID,
			ReferrerID: row.ReferrerID,
			ReferralID: row.ReferralID,
			Bonus:      row.Bonus,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return out, nil
}
