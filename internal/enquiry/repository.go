package enquiry

import (
	"context"
	"sync"
	"time"
)

// Repository lists enquiries newest first.
type Repository interface {
	List(ctx context.Context) ([]Enquiry, error)
	Create(ctx context.Context, e Enquiry) (Enquiry, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Enquiry
	nextID  int64
	now     func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, now: time.Now}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Enquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Enquiry, 0, len(r.storage))
	for i := len(r.storage) - 1; i >= 0; i-- {
		out = append(out, r.storage[i])
	}
	return out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, e Enquiry) (Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = r.now().UTC()
	r.storage = append(r.storage, e)
	return e, nil
}
