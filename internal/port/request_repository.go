package port

import (
	"context"

	"github.com/google/uuid"

	"prokura/internal/domain"
)

// RequestRepository abstracts procurement request storage.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.ProcurementRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcurementRequest, error)
	List(ctx context.Context) ([]domain.ProcurementRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) (*domain.ProcurementRequest, error)
	AppendStatusChange(ctx context.Context, change *domain.StatusChange) error
	StatusHistory(ctx context.Context, id uuid.UUID) ([]domain.StatusChange, error)
}
