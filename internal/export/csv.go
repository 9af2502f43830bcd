package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/stwalsh4118/blockjoin/internal/models"
)

// WriteAssignments writes the matched parcel/block pairs to path as a
// UTF-8 comma-delimited file: a header row followed by one data row per
// assignment, column order (parcel_id, block_geoid), no index column.
// The file is created or truncated.
func WriteAssignments(path string, rows []models.ResultRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"parcel_id", "block_geoid"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{strconv.Itoa(row.ParcelID), row.BlockGeoid}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for parcel %d: %w", row.ParcelID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", path, err)
	}

	return nil
}
