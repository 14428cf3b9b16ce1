package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"prokura/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Request ID",
	"Requestor",
	"Title",
	"Vendor",
	"VAT ID",
	"Department",
	"Commodity Group",
	"Currency",
	"Total Cost",
	"Line Item Count",
	"Status",
	"Created At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting procurement requests as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRequests converts a batch of requests to CSV rows and writes them.
func (w *Writer) WriteRequests(reqs []domain.ProcurementRequest) error {
	for i := range reqs {
		if err := w.csv.Write(requestToRow(&reqs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func requestToRow(req *domain.ProcurementRequest) []string {
	row := make([]string, len(columns))
	row[0] = req.ID.String()
	row[1] = req.RequestorName
	row[2] = req.Title
	row[3] = req.VendorName
	row[4] = req.VATID
	row[5] = req.Department
	row[6] = req.CommodityGroup
	row[7] = string(req.Currency)
	row[8] = formatMoney(req.TotalCost)
	row[9] = strconv.Itoa(len(req.LineItems))
	row[10] = string(req.Status)
	row[11] = req.CreatedAt.Format(time.RFC3339)
	row[12] = req.UpdatedAt.Format(time.RFC3339)
	return row
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
