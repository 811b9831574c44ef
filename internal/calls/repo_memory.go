package calls

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and the memory store driver.
// IDs are assigned from a counter and never reused, even after Delete.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []Call
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{nextID: 1} }

func (r *MemoryRepo) Create(ctx context.Context, c Call) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storageErr("create", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	if c.Status == "" {
		c.Status = StatusPending
	}
	r.rows = append(r.rows, c)
	return c.ID, nil
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]Call, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *MemoryRepo) ListByPhone(ctx context.Context, phone string) ([]Call, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("list_by_phone", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0)
	for _, c := range r.rows {
		if c.PhoneNumber == phone {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, id int64, status Status) error {
	if err := ctx.Err(); err != nil {
		return storageErr("set_status", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Status = status
			return nil
		}
	}
	return storageErr("set_status", ErrNotFound)
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return storageErr("delete", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return storageErr("delete", ErrNotFound)
}

// Len returns the number of stored rows.
func (r *MemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
