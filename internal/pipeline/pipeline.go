// Package pipeline orchestrates the document-to-record extraction flow:
// sanitize, prompt, complete, validate, plus an independent
// commodity-group classification merged into the final result.
package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"

	"prokura/internal/domain"
	"prokura/internal/port"
	"prokura/internal/prompt"
	"prokura/internal/sanitizer"
	"prokura/internal/schema"
)

// Pipeline wires the extraction stages together. Each invocation is
// request-scoped; the only shared state is the read-only classifier.
type Pipeline struct {
	sanitizer  *sanitizer.Sanitizer
	completion port.CompletionClient
	validator  *schema.Validator
	classifier port.Classifier
}

// New creates a Pipeline from its stage implementations.
func New(s *sanitizer.Sanitizer, c port.CompletionClient, v *schema.Validator, cl port.Classifier) *Pipeline {
	return &Pipeline{sanitizer: s, completion: c, validator: v, classifier: cl}
}

// Run executes one extraction. Classification runs on its own goroutine
// and is merged into the result regardless of how the extraction state
// machine ends, so a failed extraction still carries a best-effort
// suggestion when a title is available. Cancellation of ctx propagates
// into the outstanding completion call.
func (p *Pipeline) Run(ctx context.Context, doc domain.RawDocument, title string) *domain.PipelineResult {
	title = strings.TrimSpace(title)

	var suggCh chan domain.CommodityGroupSuggestion
	if title != "" {
		suggCh = make(chan domain.CommodityGroupSuggestion, 1)
		go func() { suggCh <- p.classifier.Classify(title) }()
	}

	result := p.extract(ctx, doc)

	switch {
	case suggCh != nil:
		s := <-suggCh
		result.Suggestion = &s
	case result.Record != nil:
		// No title supplied; classify the extracted line-item text instead.
		if text := descriptionText(result.Record); text != "" {
			s := p.classifier.Classify(text)
			result.Suggestion = &s
		}
	}
	return result
}

// extract drives the Received -> Sanitizing -> Prompting -> AwaitingModel
// -> Validating state machine. No stage is retried here; retries live
// inside the completion client only.
func (p *Pipeline) extract(ctx context.Context, doc domain.RawDocument) *domain.PipelineResult {
	text, err := p.sanitizer.Sanitize(doc)
	if err != nil {
		// Terminal: short-circuits before any network call.
		return failed(domain.StageSanitizing, domain.ReasonUnreadableDocument, "", err)
	}

	pr := prompt.Build(text)

	raw, err := p.completion.Complete(ctx, pr)
	if err != nil {
		reason := domain.ReasonServiceUnavailable
		if errors.Is(err, domain.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			reason = domain.ReasonTimeout
		}
		return failed(domain.StageAwaitingModel, reason, "", err)
	}

	record, err := p.validator.Validate(raw)
	if err != nil {
		var ve *schema.ViolationError
		if errors.As(err, &ve) {
			return failed(domain.StageValidating, domain.ReasonSchemaViolation, ve.Field, err)
		}
		return failed(domain.StageValidating, domain.ReasonMalformedOutput, "", err)
	}

	if len(record.Flags) > 0 {
		log.Printf("pipeline.Pipeline: record for %q carries %d reconciliation flags", record.VendorName, len(record.Flags))
	}
	return &domain.PipelineResult{
		Record:        record,
		SchemaVersion: pr.Version,
		Stage:         domain.StageSucceeded,
	}
}

func failed(stage domain.Stage, reason domain.FailureReason, field string, err error) *domain.PipelineResult {
	log.Printf("pipeline.Pipeline: stage %s failed (%s): %v", stage, reason, err)
	return &domain.PipelineResult{
		Stage: domain.StageFailed,
		Failure: &domain.StageFailure{
			Stage:   stage,
			Reason:  reason,
			Field:   field,
			Message: err.Error(),
		},
	}
}

func descriptionText(record *domain.ProcurementRecord) string {
	var parts []string
	for _, item := range record.LineItems {
		if item.Description != "" {
			parts = append(parts, item.Description)
		}
	}
	return strings.Join(parts, " ")
}
