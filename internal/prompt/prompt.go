// Package prompt assembles the few-shot extraction prompt. Building is
// pure and deterministic: identical input text yields a byte-identical
// prompt, which keeps model behavior reproducible at temperature zero.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"prokura/internal/domain"
	"prokura/internal/schema"
)

// exemplar is one worked input/output pair embedded in the prompt.
type exemplar struct {
	input  string
	output string
}

// exemplars pin down the output field names and the remapping of vendor
// column labels. They are fixed; changing them means changing schema.Version.
var exemplars = []exemplar{
	{
		input: "Global Tech Solutions GmbH, VAT: DE987654321. Offer 2024-117.\n" +
			"Photoshop License  Quantity: 10  Unit Price: 150.00 EUR  Line Total: 1500.00\n" +
			"Total: 1500.00 EUR",
		output: `{"vendor_name":"Global Tech Solutions GmbH","vat_id":"DE987654321","currency":"EUR","total_cost":1500.0,"line_items":[{"description":"Photoshop License","amount":10,"unit":"licenses","unit_price":150.0,"total_price":1500.0}]}`,
	},
	{
		input: "Apple Store offer for the IT department: 5x MacBook Pro at 1000 USD each, grand total 5000 USD.",
		output: `{"vendor_name":"Apple Store","currency":"USD","total_cost":5000.0,"line_items":[{"description":"MacBook Pro","amount":5,"unit":"pcs","unit_price":1000.0,"total_price":5000.0}]}`,
	},
}

// Build assembles the extraction prompt for one sanitized document.
func Build(cleanedText string) domain.ExtractionPrompt {
	return domain.ExtractionPrompt{
		System:  systemPrompt(),
		User:    "Document Text:\n" + cleanedText,
		Version: schema.Version,
	}
}

func systemPrompt() string {
	var b strings.Builder

	b.WriteString("You are a procurement data extractor. Parse the vendor offer into a single JSON object.\n\n")
	b.WriteString("STRICT RULES:\n")
	fmt.Fprintf(&b, "1. Emit ONLY these top-level fields: %s, %s, %s, %s, %s.\n",
		schema.FieldVendorName, schema.FieldVATID, schema.FieldCurrency,
		schema.FieldTotalCost, schema.FieldLineItems)
	fmt.Fprintf(&b, "2. Each entry of %s uses EXACTLY these keys: %s, %s, %s, %s, %s.\n",
		schema.FieldLineItems, schema.FieldDescription, schema.FieldAmount,
		schema.FieldUnit, schema.FieldUnitPrice, schema.FieldTotalPrice)
	b.WriteString("3. Vendor documents label columns differently; map them as follows:\n")
	for _, label := range sortedRemapLabels() {
		fmt.Fprintf(&b, "   - \"%s\" -> %s\n", label, schema.VendorFieldRemap[label])
	}
	b.WriteString("4. All prices and amounts MUST be JSON numbers. Strip currency symbols such as € and $.\n")
	fmt.Fprintf(&b, "5. %s is an ISO code, one of: %s.\n", schema.FieldCurrency, currencyList())
	fmt.Fprintf(&b, "6. If the VAT identifier is not stated, set %s to the empty string.\n", schema.FieldVATID)

	for i, ex := range exemplars {
		fmt.Fprintf(&b, "\n--- EXAMPLE %d ---\nInput: %s\nOutput: %s\n--- END EXAMPLE %d ---\n",
			i+1, ex.input, ex.output, i+1)
	}

	b.WriteString("\nReturn ONLY the raw JSON object for the document text provided by the user. ")
	b.WriteString("No markdown fences, no explanation, no surrounding prose.")
	return b.String()
}

func sortedRemapLabels() []string {
	labels := make([]string, 0, len(schema.VendorFieldRemap))
	for label := range schema.VendorFieldRemap {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func currencyList() string {
	codes := make([]string, 0, len(domain.Currencies))
	for _, c := range domain.Currencies {
		codes = append(codes, string(c))
	}
	return strings.Join(codes, ", ")
}
