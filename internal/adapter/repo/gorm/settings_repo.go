package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printbank/internal/adapter/repo/gorm/model"
	"printbank/internal/app/ports"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepo {
	return SettingsRepo{db: db}
}

func (r SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var m model.Setting
	if err := getDBFromCtx(ctx, r.db).Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrNotFound
		}
		return "", err
	}
	return m.Value, nil
}

func (r SettingsRepo) Set(ctx context.Context, key, value string) error {
	m := model.Setting{Key: key, Value: value}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&m).Error
}
