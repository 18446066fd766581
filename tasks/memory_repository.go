package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps tasks in process memory. It backs STORE_BACKEND=memory and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Task
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]Task)}
}

func (r *MemoryRepository) Create(_ context.Context, task *Task) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	task.ID = r.nextID
	task.CreatedAt, task.UpdatedAt = now, now
	r.byID[task.ID] = *task
	return task, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, title, description string) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, errTaskNotFound()
	}
	t.Title, t.Description = title, description
	t.UpdatedAt = time.Now().UTC()
	r.byID[id] = t
	return &t, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, errTaskNotFound()
	}
	return &t, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID int64, page, perPage int) (*Page, error) {
	r.mu.RLock()
	owned := make([]Task, 0)
	for _, t := range r.byID {
		if t.UserID == ownerID {
			owned = append(owned, t)
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	start := Offset(page, perPage)
	items := []Task{}
	if start < len(owned) {
		end := start + perPage
		if end > len(owned) || end < start {
			end = len(owned)
		}
		items = owned[start:end]
	}
	return NewPage(items, int64(len(owned)), page, perPage), nil
}
