package memory

import (
	"context"
	"sort"

	"printbank/internal/app/ports"
)

type TaskRepo struct {
	store *Store
}

func NewTaskRepo(store *Store) TaskRepo {
	return TaskRepo{store: store}
}

func (r TaskRepo) Create(ctx context.Context, task ports.TaskRecord) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.data.tasks[task.ID]; exists {
		return ports.ErrConflict
	}
	r.store.data.tasks[task.ID] = task
	return nil
}

func (r TaskRepo) Get(ctx context.Context, taskID string) (ports.TaskRecord, error) {
	defer r.store.lock(ctx)()
	task, ok := r.store.data.tasks[taskID]
	if !ok {
		return ports.TaskRecord{}, ports.ErrTaskNotFound
	}
	return task, nil
}

func (r TaskRepo) List(ctx context.Context) ([]ports.TaskRecord, error) {
	defer r.store.lock(ctx)()
	out := make([]ports.TaskRecord, 0, len(r.store.data.tasks))
	for _, task := range r.store.data.tasks {
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r TaskRepo) Save(ctx context.Context, task ports.TaskRecord) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.tasks[task.ID]; !ok {
		return ports.ErrTaskNotFound
	}
	r.store.data.tasks[task.ID] = task
	return nil
}

func (r TaskRepo) Delete(ctx context.Context, taskID string) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.tasks[taskID]; !ok {
		return ports.ErrTaskNotFound
	}
	delete(r.store.data.tasks, taskID)
	return nil
}

type TaskCompletionRepo struct {
	store *Store
}

func NewTaskCompletionRepo(store *Store) TaskCompletionRepo {
	return TaskCompletionRepo{store: store}
}

func (r TaskCompletionRepo) Insert(ctx context.Context, c ports.TaskCompletion) error {
	defer r.store.lock(ctx)()
	k := pairKey(c.PlayerID, c.TaskID)
	if _, exists := r.store.data.completions[k]; exists {
		return ports.ErrConflict
	}
	r.store.data.completions[k] = c
	return nil
}

func (r TaskCompletionRepo) Exists(ctx context.Context, playerID, taskID string) (bool, error) {
	defer r.store.lock(ctx)()
	_, ok := r.store.data.completions[pairKey(playerID, taskID)]
	return ok, nil
}

func (r TaskCompletionRepo) ListByPlayer(ctx context.Context, playerID string) ([]ports.TaskCompletion, error) {
	defer r.store.lock(ctx)()
	out := make([]ports.TaskCompletion, 0)
	for _, c := range r.store.data.completions {
		if c.PlayerID == playerID {
			out = append(out, c)
		}
	}
	return out, nil
}
