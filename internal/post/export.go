package post

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// csvHeader is the export column layout. The "Post Text" column name
// matches what the history importer looks for, so exports can be fed
// back in as post history.
var csvHeader = []string{
	"Batch ID", "Index", "Platform", "Provider", "Model",
	"Post Text", "Char Count", "Created At",
}

// WriteCSV writes the posts to w in CSV form.
func WriteCSV(w io.Writer, posts []*Post) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, p := range posts {
		record := []string{
			p.BatchID,
			strconv.Itoa(p.Index),
			p.Platform,
			p.Provider,
			p.Model,
			p.Text,
			strconv.Itoa(p.CharCount),
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the posts to a timestamped CSV file under dir and
// returns the file path.
func ExportCSV(dir string, posts []*Post) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("posts_%s.csv", time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, posts); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}

	return path, nil
}
