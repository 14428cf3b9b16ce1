package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"prokura/internal/domain"
)

// ViolationError reports a field that is present but violates the record
// schema. The field path is surfaced so the UI can ask for manual correction.
type ViolationError struct {
	Field  string
	Reason string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.Field, e.Reason)
}

// recordSchema is the JSON-Schema document for a procurement record.
// An empty vat_id is tolerated; a non-empty one must look like an EU VAT
// identifier (country prefix plus 2-12 alphanumerics).
var recordSchema = map[string]any{
	"type":     "object",
	"required": []any{FieldVendorName, FieldTotalCost, FieldLineItems},
	"properties": map[string]any{
		FieldVendorName: map[string]any{"type": "string", "minLength": 1},
		FieldVATID:      map[string]any{"type": "string", "pattern": "^$|^[A-Z]{2}[0-9A-Za-z]{2,12}$"},
		FieldCurrency:   map[string]any{"enum": []any{"EUR", "USD", "GBP", "CHF"}},
		FieldTotalCost:  map[string]any{"type": "number", "minimum": 0},
		FieldLineItems: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{FieldDescription, FieldAmount, FieldUnitPrice},
				"properties": map[string]any{
					FieldDescription: map[string]any{"type": "string", "minLength": 1},
					FieldAmount:      map[string]any{"type": "number", "exclusiveMinimum": 0},
					FieldUnit:        map[string]any{"type": "string"},
					FieldUnitPrice:   map[string]any{"type": "number", "minimum": 0},
					FieldTotalPrice:  map[string]any{"type": "number", "minimum": 0},
				},
			},
		},
	},
}

// numericLiteral matches strings the coercion policy accepts as numbers.
var numericLiteral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Validator parses raw model output and validates it against the
// procurement record schema. Safe for concurrent use.
type Validator struct {
	compiled  *jsonschema.Schema
	tolerance float64
}

// NewValidator compiles the record schema. tolerance is the absolute
// difference allowed when reconciling line totals; zero or negative
// falls back to 1.00.
func NewValidator(tolerance float64) (*Validator, error) {
	if tolerance <= 0 {
		tolerance = 1.00
	}
	b, err := json.Marshal(recordSchema)
	if err != nil {
		return nil, fmt.Errorf("marshaling record schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("record.json")
	if err != nil {
		return nil, fmt.Errorf("compiling record schema: %w", err)
	}
	return &Validator{compiled: compiled, tolerance: tolerance}, nil
}

// Validate turns raw model output into a validated ProcurementRecord.
// Non-JSON input fails with domain.ErrMalformedOutput; a parseable object
// that breaks the schema fails with a *ViolationError naming the field.
func (v *Validator) Validate(raw string) (*domain.ProcurementRecord, error) {
	cleaned := StripFences(raw)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	coerceNumerics(obj)

	if err := v.compiled.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if ok := asValidationError(err, &ve); ok {
			return nil, violationFrom(ve)
		}
		return nil, fmt.Errorf("validating record: %w", err)
	}

	record, err := decodeRecord(obj)
	if err != nil {
		return nil, err
	}
	v.reconcile(record)
	return record, nil
}

// StripFences removes a surrounding markdown code fence, which the model
// emits despite the JSON-only instruction.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return s
	}
	body := strings.TrimSpace(parts[1])
	body = strings.TrimPrefix(body, "json")
	return strings.TrimSpace(body)
}

// coerceNumerics rewrites quoted pure-numeric literals into numbers on the
// fields the policy covers. Any other string is left alone so schema
// validation can name it.
func coerceNumerics(obj map[string]any) {
	coerceField(obj, FieldTotalCost)
	items, ok := obj[FieldLineItems].([]any)
	if !ok {
		return
	}
	for _, it := range items {
		line, ok := it.(map[string]any)
		if !ok {
			continue
		}
		coerceField(line, FieldAmount)
		coerceField(line, FieldUnitPrice)
		coerceField(line, FieldTotalPrice)
	}
}

func coerceField(m map[string]any, key string) {
	s, ok := m[key].(string)
	if !ok {
		return
	}
	if numericLiteral.MatchString(s) {
		m[key] = json.Number(s)
	}
}

func decodeRecord(obj map[string]any) (*domain.ProcurementRecord, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-marshaling coerced record: %w", err)
	}
	var record domain.ProcurementRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &record, nil
}

// reconcile flags line items whose stated total disagrees with
// amount x unit_price beyond the tolerance. Mismatches are advisory.
func (v *Validator) reconcile(record *domain.ProcurementRecord) {
	var lineSum float64
	allStated := true
	for i := range record.LineItems {
		item := &record.LineItems[i]
		computed := item.Amount * item.UnitPrice
		if item.TotalPrice == 0 {
			lineSum += computed
			allStated = false
			continue
		}
		lineSum += item.TotalPrice
		if math.Abs(computed-item.TotalPrice) > v.tolerance {
			record.Flags = append(record.Flags, fmt.Sprintf(
				"%s[%d]: stated total %.2f differs from %s x %s = %.2f",
				FieldLineItems, i, item.TotalPrice, FieldAmount, FieldUnitPrice, computed))
		}
	}
	if len(record.LineItems) > 0 && allStated && math.Abs(lineSum-record.TotalCost) > v.tolerance {
		record.Flags = append(record.Flags, fmt.Sprintf(
			"%s: %.2f differs from sum of line totals %.2f",
			FieldTotalCost, record.TotalCost, lineSum))
	}
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	ve, ok := err.(*jsonschema.ValidationError)
	if ok {
		*target = ve
	}
	return ok
}

// violationFrom picks the most specific leaf cause of a validation error.
// Causes pointing at a concrete field win over record-level ones such as
// missing required properties.
func violationFrom(ve *jsonschema.ValidationError) *ViolationError {
	leaves := collectLeaves(ve, nil)
	chosen := leaves[0]
	for _, leaf := range leaves {
		if leaf.InstanceLocation != "" && leaf.InstanceLocation != "/" {
			chosen = leaf
			break
		}
	}
	field := fieldPath(chosen.InstanceLocation)
	if field == "(record)" {
		if m := missingProperty.FindStringSubmatch(chosen.Message); m != nil {
			field = m[1]
		}
	}
	return &ViolationError{Field: field, Reason: chosen.Message}
}

var missingProperty = regexp.MustCompile(`missing propert(?:y|ies): '([^']+)'`)

func collectLeaves(ve *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(acc, ve)
	}
	for _, c := range ve.Causes {
		acc = collectLeaves(c, acc)
	}
	return acc
}

// fieldPath converts a JSON pointer like /line_items/0/amount into the
// dotted form line_items[0].amount used in violation messages.
func fieldPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "(record)"
	}
	segments := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	var b strings.Builder
	for _, seg := range segments {
		if isIndex(seg) {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
