package task

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printbank/internal/app/ledger"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

var (
	ErrInvalidRequest    = errors.New("invalid task request")
	ErrAlreadyCompleted  = errors.New("task already completed")
	ErrCompletionLimit   = errors.New("task completion limit reached")
	ErrNotAChannelMember = errors.New("not a channel member")
)

type UseCase struct {
	Ledger      ledger.Ledger
	Tasks       ports.TaskRepository
	Completions ports.TaskCompletionRepository
	Now         func() time.Time
	NewID       func() string
}

type CompleteRequest struct {
	PlayerID string
	TaskID   string
	// IsChannelMember is resolved upstream by the chat integration.
	IsChannelMember bool
}

// View is a task as shown to one player.
type View struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Link      string          `json:"link"`
	Bonus     decimal.Decimal `json:"bonus"`
	Exp       int64           `json:"exp"`
	Completed bool            `json:"completed"`
}

type CreateRequest struct {
	Title                string
	Link                 string
	ChannelID            string
	Bonus                decimal.Decimal
	RewardedMinutes      int64
	CompletionLimit      int
	ConfirmationDisabled bool
	Langs                []string
	Exp                  int64
}

// CompleteTask pays a task's bonus into the task balance and grants its
// experience. The completion marker, the task counter and the player save
// commit together.
func (u UseCase) CompleteTask(ctx context.Context, req CompleteRequest) (economy.Player, error) {
	if u.Tasks == nil || u.Completions == nil || req.PlayerID == "" || req.TaskID == "" {
		return economy.Player{}, ErrInvalidRequest
	}
	return u.Ledger.Update(ctx, "complete_task", req.PlayerID, func(txCtx context.Context, p *economy.Player, now time.Time) error {
		task, err := u.Tasks.Get(txCtx, req.TaskID)
		if err != nil {
			return err
		}
		if task.CompletionLimit > 0 && task.CompletedTimes >= task.CompletionLimit {
			return ErrCompletionLimit
		}
		done, err := u.Completions.Exists(txCtx, p.PlayerID, task.ID)
		if err != nil {
			return err
		}
		if done {
			return ErrAlreadyCompleted
		}
		if !task.ConfirmationDisabled && !req.IsChannelMember {
			return ErrNotAChannelMember
		}

		bonus, err := bonusFor(task, *p)
		if err != nil {
			return err
		}
		task.CompletedTimes++
		if err := u.Tasks.Save(txCtx, task); err != nil {
			return err
		}
		err = u.Completions.Insert(txCtx, ports.TaskCompletion{
			PlayerID:  p.PlayerID,
			TaskID:    task.ID,
			Bonus:     bonus,
			CreatedAt: now,
		})
		if errors.Is(err, ports.ErrConflict) {
			return ErrAlreadyCompleted
		}
		if err != nil {
			return err
		}
		p.TaskBalance = p.TaskBalance.Add(bonus).Round(2)
		p.Experience += task.Exp
		return nil
	})
}

// ListForPlayer returns open tasks targeted at lang, newest last, with the
// bonus the player would receive right now.
func (u UseCase) ListForPlayer(ctx context.Context, playerID, lang string) ([]View, error) {
	if u.Tasks == nil || u.Completions == nil || playerID == "" {
		return nil, ErrInvalidRequest
	}
	p, err := u.Ledger.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	tasks, err := u.Tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := u.Completions.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		done[c.TaskID] = true
	}

	lang = strings.ToLower(strings.TrimSpace(lang))
	out := make([]View, 0, len(tasks))
	for _, task := range tasks {
		if !done[task.ID] && task.CompletionLimit > 0 && task.CompletedTimes >= task.CompletionLimit {
			continue
		}
		if len(task.Langs) > 0 && !slices.Contains(task.Langs, lang) {
			continue
		}
		bonus, err := bonusFor(task, p)
		if err != nil {
			return nil, err
		}
		out = append(out, View{
			ID:        task.ID,
			Title:     task.Title,
			Link:      task.Link,
			Bonus:     bonus,
			Exp:       task.Exp,
			Completed: done[task.ID],
		})
	}
	return out, nil
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (ports.TaskRecord, error) {
	if u.Tasks == nil || strings.TrimSpace(req.Title) == "" || req.CompletionLimit < 0 || req.Bonus.IsNegative() {
		return ports.TaskRecord{}, ErrInvalidRequest
	}
	langs := make([]string, 0, len(req.Langs))
	for _, l := range req.Langs {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			langs = append(langs, l)
		}
	}
	task := ports.TaskRecord{
		ID:                   u.newID(),
		Title:                strings.TrimSpace(req.Title),
		Link:                 req.Link,
		ChannelID:            req.ChannelID,
		Bonus:                req.Bonus.Round(2),
		RewardedMinutes:      req.RewardedMinutes,
		CompletionLimit:      req.CompletionLimit,
		ConfirmationDisabled: req.ConfirmationDisabled,
		Langs:                langs,
		Exp:                  req.Exp,
		CreatedAt:            u.now(),
	}
	if err := u.Tasks.Create(ctx, task); err != nil {
		return ports.TaskRecord{}, err
	}
	return task, nil
}

func (u UseCase) Delete(ctx context.Context, taskID string) error {
	if u.Tasks == nil || taskID == "" {
		return ErrInvalidRequest
	}
	return u.Tasks.Delete(ctx, taskID)
}

// UpdateLimit changes how many players may still complete the task; zero
// means unlimited.
func (u UseCase) UpdateLimit(ctx context.Context, taskID string, limit int) (ports.TaskRecord, error) {
	if u.Tasks == nil || u.Ledger.TxManager == nil || taskID == "" || limit < 0 {
		return ports.TaskRecord{}, ErrInvalidRequest
	}
	var out ports.TaskRecord
	err := u.Ledger.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		task, err := u.Tasks.Get(txCtx, taskID)
		if err != nil {
			return err
		}
		task.CompletionLimit = limit
		if err := u.Tasks.Save(txCtx, task); err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return ports.TaskRecord{}, err
	}
	return out, nil
}

// bonusFor is the fixed bonus when set, otherwise the player's production
// over the task's rewarded minutes.
func bonusFor(task ports.TaskRecord, p economy.Player) (decimal.Decimal, error) {
	if task.Bonus.IsPositive() {
		return task.Bonus, nil
	}
	return economy.TaskReward(p, task.RewardedMinutes)
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now().UTC()
	}
	return u.Now().UTC()
}

func (u UseCase) newID() string {
	if u.NewID == nil {
		return uuid.NewString()
	}
	return u.NewID()
}
