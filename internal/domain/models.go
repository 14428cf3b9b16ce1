package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawDocument is an uploaded vendor offer, alive for one pipeline invocation.
type RawDocument struct {
	Bytes     []byte
	MediaType string
}

// ExtractionPrompt is the immutable instruction payload sent to the
// completion service. Built fresh per request, never cached.
type ExtractionPrompt struct {
	System  string
	User    string
	Version string
}

// LineItem is a single order line on a vendor offer.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price,omitempty"`
}

// ProcurementRecord is the schema-validated output of an extraction.
// Flags carry advisory findings (line total mismatches); they never
// invalidate the record.
type ProcurementRecord struct {
	VendorName string     `json:"vendor_name"`
	VATID      string     `json:"vat_id,omitempty"`
	Currency   Currency   `json:"currency,omitempty"`
	TotalCost  float64    `json:"total_cost"`
	LineItems  []LineItem `json:"line_items"`
	Flags      []string   `json:"flags,omitempty"`
}

// CommodityGroupSuggestion is the classifier's advisory label for a title.
type CommodityGroupSuggestion struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// StageFailure describes which pipeline stage failed and why.
type StageFailure struct {
	Stage   Stage         `json:"stage"`
	Reason  FailureReason `json:"reason"`
	Field   string        `json:"field,omitempty"`
	Message string        `json:"message"`
}

// PipelineResult is the discriminated outcome of one pipeline invocation.
// On success Record is set, Failure is nil, and SchemaVersion names the
// record schema the prompt and validator enforced, so callers persist
// records with their schema generation. The suggestion is computed
// independently and may be present either way.
type PipelineResult struct {
	Record        *ProcurementRecord        `json:"record,omitempty"`
	SchemaVersion string                    `json:"schema_version,omitempty"`
	Suggestion    *CommodityGroupSuggestion `json:"suggestion,omitempty"`
	Stage         Stage                     `json:"stage"`
	Failure       *StageFailure             `json:"failure,omitempty"`
}

// Succeeded reports whether the extraction reached a validated record.
func (r *PipelineResult) Succeeded() bool {
	return r.Failure == nil && r.Record != nil
}

// ProcurementRequest is a procurement request tracked through its
// approval workflow. Record fields are flattened from either an
// extraction result or manual entry.
type ProcurementRequest struct {
	ID             uuid.UUID     `json:"id"`
	RequestorName  string        `json:"requestor_name"`
	Title          string        `json:"title"`
	VendorName     string        `json:"vendor_name"`
	VATID          string        `json:"vat_id,omitempty"`
	Department     string        `json:"department"`
	CommodityGroup string        `json:"commodity_group,omitempty"`
	Currency       Currency      `json:"currency,omitempty"`
	TotalCost      float64       `json:"total_cost"`
	LineItems      []LineItem    `json:"line_items"`
	Status         RequestStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// StatusChange is one entry in a request's status history.
type StatusChange struct {
	RequestID uuid.UUID     `json:"request_id"`
	NewStatus RequestStatus `json:"new_status"`
	ChangedBy string        `json:"changed_by"`
	ChangedAt time.Time     `json:"changed_at"`
}
