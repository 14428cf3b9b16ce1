package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prokura/internal/domain"
	"prokura/internal/repository/memory"
)

func storedRequest(title string, createdAt time.Time) *domain.ProcurementRequest {
	return &domain.ProcurementRequest{
		ID:         uuid.New(),
		Title:      title,
		VendorName: "Acme GmbH",
		Status:     domain.StatusOpen,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestRequestRepo_CreateAndGet(t *testing.T) {
	repo := memory.NewRequestRepo()
	req := storedRequest("Laptops", time.Now().UTC())

	require.NoError(t, repo.Create(context.Background(), req))

	got, err := repo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, "Laptops", got.Title)
}

func TestRequestRepo_GetMissing(t *testing.T) {
	repo := memory.NewRequestRepo()

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRequestRepo_ListNewestFirst(t *testing.T) {
	repo := memory.NewRequestRepo()
	base := time.Now().UTC()
	older := storedRequest("older", base.Add(-time.Hour))
	newer := storedRequest("newer", base)
	require.NoError(t, repo.Create(context.Background(), older))
	require.NoError(t, repo.Create(context.Background(), newer))

	list, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)
	assert.Equal(t, "older", list[1].Title)
}

func TestRequestRepo_UpdateStatus(t *testing.T) {
	repo := memory.NewRequestRepo()
	req := storedRequest("Laptops", time.Now().UTC())
	require.NoError(t, repo.Create(context.Background(), req))

	updated, err := repo.UpdateStatus(context.Background(), req.ID, domain.StatusInProgress)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.True(t, updated.UpdatedAt.After(req.UpdatedAt) || updated.UpdatedAt.Equal(req.UpdatedAt))

	_, err = repo.UpdateStatus(context.Background(), uuid.New(), domain.StatusInProgress)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRequestRepo_StatusHistoryIsolated(t *testing.T) {
	repo := memory.NewRequestRepo()
	id := uuid.New()
	require.NoError(t, repo.AppendStatusChange(context.Background(), &domain.StatusChange{
		RequestID: id,
		NewStatus: domain.StatusInProgress,
		ChangedBy: "Maria Schmidt",
		ChangedAt: time.Now().UTC(),
	}))

	history, err := repo.StatusHistory(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 1)

	// Mutating the returned slice must not leak into the store.
	history[0].ChangedBy = "tampered"
	again, err := repo.StatusHistory(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Maria Schmidt", again[0].ChangedBy)
}
