package gormrepo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printbank/internal/adapter/repo/gorm/model"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type PlayerRepo struct {
	db *gorm.DB
}

func NewPlayerRepo(db *gorm.DB) PlayerRepo {
	return PlayerRepo{db: db}
}

func (r PlayerRepo) Create(ctx context.Context, p economy.Player) error {
	m := toPlayerModel(p)
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r PlayerRepo) GetByPlayerID(ctx context.Context, playerID string) (economy.Player, error) {
	var m model.Player
	if err := getDBFromCtx(ctx, r.db).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return economy.Player{}, ports.ErrPlayerNotFound
		}
		return economy.Player{}, err
	}
	return fromPlayerModel(m), nil
}

func (r PlayerRepo) SaveWithVersion(ctx context.Context, p economy.Player, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := toPlayerModel(p)
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"balance":                 p.Balance,
		"task_balance":            p.TaskBalance,
		"raw_material":            p.RawMaterial,
		"used_transfer_allowance": p.UsedTransferAllowance,
		"money_storage_level":     int32(p.MoneyStorageLevel),
		"material_storage_level":  int32(p.MaterialStorageLevel),
		"production_rate_level":   int32(p.ProductionRateLevel),
		"unit_value_level":        int32(p.UnitValueLevel),
		"rank":                    string(p.Rank),
		"experience":              p.Experience,
		"daily_streak":            int32(p.DailyStreak),
		"last_claimed_at":         p.LastClaimedAt,
		"last_snapshot_at":        p.LastSnapshotAt,
		"version":                 p.Version,
	}

	res := db.Model(&model.Player{}).
		Where("player_id = ? AND version = ?", p.PlayerID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r PlayerRepo) TopByTotal(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	type row struct {
		PlayerID string
		Total    decimal.Decimal
		Rank     string
	}
	rows := []row{}
	query := getDBFromCtx(ctx, r.db).
		Model(&model.Player{}).
		Select("player_id, balance + task_balance AS total, rank").
		Order("total DESC, player_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.LeaderboardEntry, 0, len(rows))
	for _, rw := range rows {
		out = append(out, ports.LeaderboardEntry{
			PlayerID: rw.PlayerID,
			Total:    rw.Total,
			Rank:     economy.Player{Rank: economy.Rank(rw.Rank)}.CurrentRank(),
		})
	}
	return out, nil
}

func toPlayerModel(p economy.Player) model.Player {
	return model.Player{
		PlayerID:              p.PlayerID,
		Balance:               p.Balance,
		TaskBalance:           p.TaskBalance,
		RawMaterial:           p.RawMaterial,
		UsedTransferAllowance: p.UsedTransferAllowance,
		MoneyStorageLevel:     int32(p.MoneyStorageLevel),
		MaterialStorageLevel:  int32(p.MaterialStorageLevel),
		ProductionRateLevel:   int32(p.ProductionRateLevel),
		UnitValueLevel:        int32(p.UnitValueLevel),
		Rank:                  string(p.Rank),
		Experience:            p.Experience,
		DailyStreak:           int32(p.DailyStreak),
		LastClaimedAt:         p.LastClaimedAt,
		LastSnapshotAt:        p.LastSnapshotAt,
		Version:               p.Version,
		CreatedAt:             p.CreatedAt,
	}
}

func fromPlayerModel(m model.Player) economy.Player {
	return economy.Player{
		PlayerID:              m.PlayerID,
		Balance:               m.Balance,
		TaskBalance:           m.TaskBalance,
		RawMaterial:           m.RawMaterial,
		UsedTransferAllowance: m.UsedTransferAllowance,
		MoneyStorageLevel:     int(m.MoneyStorageLevel),
		MaterialStorageLevel:  int(m.MaterialStorageLevel),
		ProductionRateLevel:   int(m.ProductionRateLevel),
		UnitValueLevel:        int(m.UnitValueLevel),
		Rank:                  economy.Rank(m.Rank),
		Experience:            m.Experience,
		DailyStreak:           int(m.DailyStreak),
		LastClaimedAt:         utcPtr(m.LastClaimedAt),
		LastSnapshotAt:        m.LastSnapshotAt.UTC(),
		Version:               m.Version,
		CreatedAt:             m.CreatedAt.UTC(),
	}
}
