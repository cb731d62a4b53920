package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"expensetracker/internal/core"
)

// CSVFile exports expenses to a CSV file, overwriting it.
type CSVFile struct {
	Path string
}

var _ Exporter = (*CSVFile)(nil)

func NewCSVFile(path string) *CSVFile {
	return &CSVFile{Path: path}
}

// Export writes the header and one row per expense and returns the path.
func (c *CSVFile) Export(_ context.Context, expenses []core.Expense) (string, error) {
	if dir := filepath.Dir(c.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(c.Path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSV(f, expenses); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv file: %w", err)
	}
	return c.Path, nil
}

// WriteCSV encodes expenses as CSV with a header row.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		if err := cw.Write(Row(e)); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
