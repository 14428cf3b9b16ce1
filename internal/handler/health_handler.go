package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prokura/internal/port"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	classifier port.Classifier
}

// NewHealthHandler creates a HealthHandler. The classifier is the only
// startup dependency worth probing; everything else is request-scoped.
func NewHealthHandler(classifier port.Classifier) *HealthHandler {
	return &HealthHandler{classifier: classifier}
}

// Liveness reports the process is up. GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}

// Readiness reports whether the classifier artifacts are loaded.
// GET /readyz.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.classifier == nil {
		RespondError(c, http.StatusServiceUnavailable, "NOT_READY", "classifier artifacts not loaded")
		return
	}
	RespondOK(c, gin.H{"status": "ready"})
}
