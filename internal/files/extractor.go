// Package files extracts text from the source documents posts are
// generated from. Plain text, Markdown, Word documents and PDFs are
// supported, plus CSV files for post history.
package files

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/postforge/postforge/internal/loggy"
)

// ErrUnsupportedType is returned for file extensions the extractor
// cannot handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// supportedExtensions lists the source document types the extractor
// accepts, without the leading dot.
var supportedExtensions = []string{"txt", "md", "docx", "pdf"}

// Extractor reads text out of source documents.
type Extractor struct {
	logger *loggy.Logger
}

// NewExtractor creates a file text extractor.
func NewExtractor(logger *loggy.Logger) *Extractor {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &Extractor{logger: logger}
}

// SupportedTypes returns the accepted source file extensions.
func SupportedTypes() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// Supported reports whether the file's extension is an accepted
// source document type.
func Supported(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractText extracts and concatenates text from the given files,
// separated by blank lines. Files that turn out empty are skipped
// with a warning; an unreadable or unsupported file fails the whole
// extraction.
func (e *Extractor) ExtractText(paths []string) (string, error) {
	if len(paths) == 0 {
		e.logger.Warn("no files provided for text extraction")
		return "", nil
	}

	var texts []string
	for _, path := range paths {
		text, err := e.extractFile(path)
		if err != nil {
			return "", err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			e.logger.Warn("file contains no text, skipping", "path", path)
			continue
		}

		texts = append(texts, text)
		e.logger.Debug("extracted text", "path", path, "chars", len(text))
	}

	return strings.Join(texts, "\n\n"), nil
}

func (e *Extractor) extractFile(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedType, filepath.Base(path))
	}

	switch ext {
	case "txt", "md":
		return readTextFile(path)
	case "docx":
		return readDocxFile(path)
	case "pdf":
		return e.readPDFFile(path)
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)
	}
}

// readTextFile reads a plain text file, falling back to Windows-1252
// when the content is not valid UTF-8. A leading BOM is dropped.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	data = []byte(strings.TrimPrefix(string(data), "\uFEFF"))
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return string(decoded), nil
}

// readDocxFile pulls the paragraph text out of a Word document.
func readDocxFile(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			return readDocumentXML(f)
		}
	}
	return "", fmt.Errorf("%s is not a Word document: no document body found", filepath.Base(path))
}

// readPDFFile extracts plain text from every page of a PDF. Pages
// that fail to decode are skipped so one bad page doesn't lose the
// whole document.
func (e *Extractor) readPDFFile(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var b strings.Builder
	totalPages := r.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			e.logger.Warn("skipping null PDF page", "path", path, "page", pageNum)
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("failed to extract PDF page text", "path", path, "page", pageNum, "error", err)
			continue
		}

		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}
