package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableNameTask           = "tasks"
	TableNameTaskCompletion = "task_completions"
	TableNameSetting        = "settings"
)

// Task mapped from table <tasks>
type Task struct {
	ID                   string          `gorm:"column:id;primaryKey" json:"id"`
	Title                string          `gorm:"column:title;not null" json:"title"`
	Link                 string          `gorm:"column:link;not null" json:"link"`
	ChannelID            string          `gorm:"column:channel_id;not null" json:"channel_id"`
	Bonus                decimal.Decimal `gorm:"column:bonus;type:numeric(38,2);not null" json:"bonus"`
	RewardedMinutes      int64           `gorm:"column:rewarded_minutes;not null" json:"rewarded_minutes"`
	CompletionLimit      int32           `gorm:"column:completion_limit;not null" json:"completion_limit"`
	CompletedTimes       int32           `gorm:"column:completed_times;not null" json:"completed_times"`
	ConfirmationDisabled bool            `gorm:"column:confirmation_disabled;not null" json:"confirmation_disabled"`
	Langs                string          `gorm:"column:langs;not null" json:"langs"`
	Exp                  int64           `gorm:"column:exp;not null" json:"exp"`
	CreatedAt            time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName Task's table name
func (*Task) TableName() string {
	return TableNameTask
}

// TaskCompletion mapped from table <task_completions>
type TaskCompletion struct {
	PlayerID  string          `gorm:"column:player_id;primaryKey" json:"player_id"`
	TaskID    string          `gorm:"column:task_id;primaryKey" json:"task_id"`
	Bonus     decimal.Decimal `gorm:"column:bonus;type:numeric(38,2);not null" json:"bonus"`
	CreatedAt time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName TaskCompletion's table name
func (*TaskCompletion) TableName() string {
	return TableNameTaskCompletion
}

// Setting mapped from table <settings>
type Setting struct {
	Key   string `gorm:"column:key;primaryKey" json:"key"`
	Value string `gorm:"column:value;not null" json:"value"`
}

// TableName Setting's table name
func (*Setting) TableName() string {
	return TableNameSetting
}
