package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"prokura/internal/domain"
	"prokura/internal/port"
)

// Workflow defaults carried over from the procurement intake forms.
const (
	defaultRequestor  = "Vladimir Keil"
	defaultDepartment = "Operations"
)

// CreateRequestInput is the DTO for creating a procurement request from
// corrected extraction output or manual entry.
type CreateRequestInput struct {
	RequestorName  string
	Title          string
	VendorName     string
	VATID          string
	Department     string
	CommodityGroup string
	Currency       domain.Currency
	TotalCost      float64
	LineItems      []domain.LineItem
}

// UpdateStatusInput is the DTO for moving a request through its workflow.
type UpdateStatusInput struct {
	RequestID uuid.UUID
	NewStatus domain.RequestStatus
	ChangedBy string
}

// RequestService defines the procurement request workflow contract.
type RequestService interface {
	Create(ctx context.Context, input *CreateRequestInput) (*domain.ProcurementRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcurementRequest, error)
	List(ctx context.Context) ([]domain.ProcurementRequest, error)
	UpdateStatus(ctx context.Context, input *UpdateStatusInput) (*domain.ProcurementRequest, error)
	StatusHistory(ctx context.Context, id uuid.UUID) ([]domain.StatusChange, error)
}

type requestService struct {
	repo port.RequestRepository
}

// NewRequestService creates a RequestService backed by repo.
func NewRequestService(repo port.RequestRepository) RequestService {
	return &requestService{repo: repo}
}

func (s *requestService) Create(ctx context.Context, input *CreateRequestInput) (*domain.ProcurementRequest, error) {
	if input.VendorName == "" {
		return nil, fmt.Errorf("vendor name is required")
	}
	if input.TotalCost < 0 {
		return nil, fmt.Errorf("total cost must not be negative")
	}
	if input.CommodityGroup != "" && !domain.IsKnownCommodityGroup(input.CommodityGroup) {
		return nil, fmt.Errorf("unknown commodity group %q", input.CommodityGroup)
	}

	requestor := input.RequestorName
	if requestor == "" {
		requestor = defaultRequestor
	}
	department := input.Department
	if department == "" {
		department = defaultDepartment
	}

	now := time.Now().UTC()
	req := &domain.ProcurementRequest{
		ID:             uuid.New(),
		RequestorName:  requestor,
		Title:          input.Title,
		VendorName:     input.VendorName,
		VATID:          input.VATID,
		Department:     department,
		CommodityGroup: input.CommodityGroup,
		Currency:       input.Currency,
		TotalCost:      input.TotalCost,
		LineItems:      input.LineItems,
		Status:         domain.StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	log.Printf("requestService.Create: request %s created for vendor %q", req.ID, req.VendorName)
	return req, nil
}

func (s *requestService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcurementRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *requestService) List(ctx context.Context) ([]domain.ProcurementRequest, error) {
	return s.repo.List(ctx)
}

// UpdateStatus moves a request through the workflow, recording the change
// in the status history.
func (s *requestService) UpdateStatus(ctx context.Context, input *UpdateStatusInput) (*domain.ProcurementRequest, error) {
	if !domain.IsValidStatus(input.NewStatus) {
		return nil, domain.ErrInvalidStatus
	}
	current, err := s.repo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, input.NewStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, input.NewStatus)
	}

	updated, err := s.repo.UpdateStatus(ctx, input.RequestID, input.NewStatus)
	if err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}

	changer := input.ChangedBy
	if changer == "" {
		changer = "Procurement Manager"
	}
	change := &domain.StatusChange{
		RequestID: input.RequestID,
		NewStatus: input.NewStatus,
		ChangedBy: changer,
		ChangedAt: time.Now().UTC(),
	}
	if err := s.repo.AppendStatusChange(ctx, change); err != nil {
		return nil, fmt.Errorf("recording status change: %w", err)
	}
	log.Printf("requestService.UpdateStatus: request %s -> %s by %s", input.RequestID, input.NewStatus, changer)
	return updated, nil
}

func (s *requestService) StatusHistory(ctx context.Context, id uuid.UUID) ([]domain.StatusChange, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.StatusHistory(ctx, id)
}
