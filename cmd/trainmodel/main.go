// Command trainmodel builds the commodity classifier artifacts from a
// labeled spreadsheet. The first sheet must carry a header row followed
// by (title, commodity group) columns.
// Usage: go run ./cmd/trainmodel training_data.xlsx
// Output: artifacts/vectorizer.gob, artifacts/classifier.gob
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"prokura/internal/classifier"
	"prokura/internal/domain"
)

const outDir = "artifacts"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: trainmodel <training_data.xlsx>")
	}
	xlsxPath := os.Args[1]

	samples, skipped, err := readSamples(xlsxPath)
	if err != nil {
		return err
	}
	log.Printf("read %d samples (%d rows skipped) from %s", len(samples), skipped, xlsxPath)

	vec, model, err := classifier.Fit(samples)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}
	log.Printf("trained %d classes over %d vocabulary terms", len(model.Classes), len(vec.Vocabulary))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	vecPath := filepath.Join(outDir, "vectorizer.gob")
	modelPath := filepath.Join(outDir, "classifier.gob")
	if err := classifier.SaveVectorizer(vecPath, vec); err != nil {
		return fmt.Errorf("writing %s: %w", vecPath, err)
	}
	if err := classifier.SaveModel(modelPath, model); err != nil {
		return fmt.Errorf("writing %s: %w", modelPath, err)
	}
	log.Printf("wrote %s and %s", vecPath, modelPath)
	return nil
}

// readSamples reads (title, commodity group) pairs from the first sheet.
// Rows with an unknown commodity group or a blank title are skipped.
func readSamples(path string) ([]classifier.Sample, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	var samples []classifier.Sample
	skipped := 0
	for i, row := range rows[1:] { // skip header
		if len(row) < 2 {
			skipped++
			continue
		}
		title := strings.TrimSpace(row[0])
		label := strings.TrimSpace(row[1])
		if title == "" || label == "" {
			skipped++
			continue
		}
		if !domain.IsKnownCommodityGroup(label) {
			log.Printf("row %d: unknown commodity group %q, skipping", i+2, label)
			skipped++
			continue
		}
		samples = append(samples, classifier.Sample{Title: title, Label: label})
	}
	if len(samples) == 0 {
		return nil, skipped, fmt.Errorf("no usable rows in %s", path)
	}
	return samples, skipped, nil
}
