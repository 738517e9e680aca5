package gormrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printbank/internal/adapter/repo/gorm/model"
	"printbank/internal/app/ports"
)

type TaskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepo {
	return TaskRepo{db: db}
}

func (r TaskRepo) Create(ctx context.Context, task ports.TaskRecord) error {
	m := toTaskModel(task)
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r TaskRepo) Get(ctx context.Context, taskID string) (ports.TaskRecord, error) {
	var m model.Task
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", taskID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TaskRecord{}, ports.ErrTaskNotFound
		}
		return ports.TaskRecord{}, err
	}
	return fromTaskModel(m), nil
}

func (r TaskRepo) List(ctx context.Context) ([]ports.TaskRecord, error) {
	rows := []model.Task{}
	if err := getDBFromCtx(ctx, r.db).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.TaskRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromTaskModel(row))
	}
	return out, nil
}

func (r TaskRepo) Save(ctx context.Context, task ports.TaskRecord) error {
	m := toTaskModel(task)
	res := getDBFromCtx(ctx, r.db).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"title":                 m.Title,
			"link":                  m.Link,
			"channel_id":            m.ChannelID,
			"bonus":                 m.Bonus,
			"rewarded_minutes":      m.RewardedMinutes,
			"completion_limit":      m.CompletionLimit,
			"completed_times":       m.CompletedTimes,
			"confirmation_disabled": m.ConfirmationDisabled,
			"langs":                 m.Langs,
			"exp":                   m.Exp,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrTaskNotFound
	}
	return nil
}

func (r TaskRepo) Delete(ctx context.Context, taskID string) error {
	res := getDBFromCtx(ctx, r.db).Where("id = ?", taskID).Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrTaskNotFound
	}
	return nil
}

func toTaskModel(t ports.TaskRecord) model.Task {
	return model.Task{
		ID:                   t.ID,
		Title:                t.Title,
		Link:                 t.Link,
		ChannelID:            t.ChannelID,
		Bonus:                t.Bonus,
		RewardedMinutes:      t.RewardedMinutes,
		CompletionLimit:      int32(t.CompletionLimit),
		CompletedTimes:       int32(t.CompletedTimes),
		ConfirmationDisabled: t.ConfirmationDisabled,
		Langs:                strings.Join(t.Langs, ","),
		Exp:                  t.Exp,
		CreatedAt:            t.CreatedAt,
	}
}

func fromTaskModel(m model.Task) ports.TaskRecord {
	var langs []string
	if m.Langs != "" {
		langs = strings.Split(m.Langs, ",")
	}
	return ports.TaskRecord{
		ID:                   m.ID,
		Title:                m.Title,
		Link:                 m.Link,
		ChannelID:            m.ChannelID,
		Bonus:                m.Bonus,
		RewardedMinutes:      m.RewardedMinutes,
		CompletionLimit:      int(m.CompletionLimit),
		CompletedTimes:       int(m.CompletedTimes),
		ConfirmationDisabled: m.ConfirmationDisabled,
		Langs:                langs,
		Exp:                  m.Exp,
		CreatedAt:            m.CreatedAt.UTC(),
	}
}

type TaskCompletionRepo struct {
	db *gorm.DB
}

func NewTaskCompletionRepo(db *gorm.DB) TaskCompletionRepo {
	return TaskCompletionRepo{db: db}
}

func (r TaskCompletionRepo) Insert(ctx context.Context, c ports.TaskCompletion) error {
	m := model.TaskCompletion{
		PlayerID:  c.PlayerID,
		TaskID:    c.TaskID,
		Bonus:     c.Bonus,
		CreatedAt: c.CreatedAt,
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

func (r TaskCompletionRepo) Exists(ctx context.Context, playerID, taskID string) (bool, error) {
	var count int64
	err := getDBFromCtx(ctx, r.db).Model(&model.TaskCompletion{}).
		Where("player_id = ? AND task_id = ?", playerID, taskID).
		Count(&count).Error
	return count > 0, err
}

func (r TaskCompletionRepo) ListByPlayer(ctx context.Context, playerID string) ([]ports.TaskCompletion, error) {
	rows := []model.TaskCompletion{}
	err := getDBFromCtx(ctx, r.db).
		Where("player_id = ?", playerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.TaskCompletion, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.TaskCompletion{
			PlayerID:  row.PlayerID,
			TaskID:    row.TaskID,
			Bonus:     row.Bonus,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return out, nil
}
