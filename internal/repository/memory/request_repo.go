// Package memory provides an in-process RequestRepository. Persistence
// is the surrounding system's concern; this keeps the workflow testable
// and the storage swappable behind the port.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"prokura/internal/domain"
)

// RequestRepo is a mutex-guarded in-memory store of procurement requests
// and their status history.
type RequestRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]domain.ProcurementRequest
	history  map[uuid.UUID][]domain.StatusChange
}

// NewRequestRepo creates an empty RequestRepo.
func NewRequestRepo() *RequestRepo {
	return &RequestRepo{
		requests: make(map[uuid.UUID]domain.ProcurementRequest),
		history:  make(map[uuid.UUID][]domain.StatusChange),
	}
}

func (r *RequestRepo) Create(_ context.Context, req *domain.ProcurementRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = *req
	return nil
}

func (r *RequestRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ProcurementRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return &req, nil
}

// List returns all requests, newest first.
func (r *RequestRepo) List(_ context.Context) ([]domain.ProcurementRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ProcurementRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RequestRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.RequestStatus) (*domain.ProcurementRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	r.requests[id] = req
	return &req, nil
}

func (r *RequestRepo) AppendStatusChange(_ context.Context, change *domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[change.RequestID] = append(r.history[change.RequestID], *change)
	return nil
}

func (r *RequestRepo) StatusHistory(_ context.Context, id uuid.UUID) ([]domain.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	changes := r.history[id]
	out := make([]domain.StatusChange, len(changes))
	copy(out, changes)
	return out, nil
}
