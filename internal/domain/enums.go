package domain

// MediaTypePDF is the only document format accepted for extraction.
const MediaTypePDF = "application/pdf"

// Currency is an ISO 4217 code accepted on procurement records.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
)

// Currencies lists every accepted currency code.
var Currencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyCHF}

// IsValidCurrency reports whether code is an accepted currency.
func IsValidCurrency(code string) bool {
	for _, c := range Currencies {
		if string(c) == code {
			return true
		}
	}
	return false
}

// Stage identifies a step of the extraction pipeline state machine.
type Stage string

const (
	StageReceived      Stage = "received"
	StageSanitizing    Stage = "sanitizing"
	StagePrompting     Stage = "prompting"
	StageAwaitingModel Stage = "awaiting_model"
	StageValidating    Stage = "validating"
	StageSucceeded     Stage = "succeeded"
	StageFailed        Stage = "failed"
)

// FailureReason classifies why a pipeline stage failed.
type FailureReason string

const (
	ReasonUnreadableDocument FailureReason = "unreadable_document"
	ReasonTimeout            FailureReason = "timeout"
	ReasonServiceUnavailable FailureReason = "service_unavailable"
	ReasonMalformedOutput    FailureReason = "malformed_output"
	ReasonSchemaViolation    FailureReason = "schema_violation"
)

// RequestStatus represents the lifecycle of a procurement request.
type RequestStatus string

const (
	StatusOpen       RequestStatus = "Open"
	StatusInProgress RequestStatus = "In Progress"
	StatusApproved   RequestStatus = "Approved"
	StatusRejected   RequestStatus = "Rejected"
	StatusClosed     RequestStatus = "Closed"
)

// statusTransitions defines the allowed forward moves for a request.
var statusTransitions = map[RequestStatus][]RequestStatus{
	StatusOpen:       {StatusInProgress, StatusRejected, StatusClosed},
	StatusInProgress: {StatusApproved, StatusRejected, StatusClosed},
	StatusApproved:   {StatusClosed},
	StatusRejected:   {StatusClosed},
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known request status.
func IsValidStatus(s RequestStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusApproved, StatusRejected, StatusClosed:
		return true
	}
	return false
}
