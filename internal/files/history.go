package files

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// postTextColumn is the header the history importer looks for.
const postTextColumn = "Post Text"

// ErrNoPostColumn is returned when a history file lacks the post
// text column.
var ErrNoPostColumn = errors.New(`history file has no "Post Text" column`)

// HistoryPosts reads previous posts from a CSV export. The file must
// have a header row with a "Post Text" column; other columns are
// ignored. Empty cells are dropped.
func (e *Extractor) HistoryPosts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		e.logger.Warn("history file is empty", "path", path)
		return nil, nil
	}

	col := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), postTextColumn) {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("%w (columns: %s)", ErrNoPostColumn, strings.Join(records[0], ", "))
	}

	var posts []string
	for i, record := range records[1:] {
		if col >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[col])
		if text == "" {
			continue
		}
		if len(text) < 10 {
			e.logger.Warn("very short history post", "row", i+2, "text", text)
		}
		posts = append(posts, text)
	}

	e.logger.Debug("extracted post history", "path", path, "posts", len(posts))
	return posts, nil
}
