package schema

// Version tags the procurement record schema. It is embedded in the
// extraction prompt so that prompt and validator always move together.
const Version = "v1"

// Output field names of the procurement record JSON emitted by the model.
const (
	FieldVendorName  = "vendor_name"
	FieldVATID       = "vat_id"
	FieldCurrency    = "currency"
	FieldTotalCost   = "total_cost"
	FieldLineItems   = "line_items"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldUnit        = "unit"
	FieldUnitPrice   = "unit_price"
	FieldTotalPrice  = "total_price"
)

// VendorFieldRemap maps the column labels vendors print on offers to the
// output field names above. The prompt builder renders these as hard rules
// and the validator enforces the targets, so the two cannot drift.
var VendorFieldRemap = map[string]string{
	"Quantity":   FieldAmount,
	"Unit Price": FieldUnitPrice,
	"Line Total": FieldTotalPrice,
}
