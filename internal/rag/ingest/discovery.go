package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
)

const MsgNoPDFs = "No PDF files found in the root directory."

func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), config.PDFExtension)
}

// FindPDFs lists the PDF files directly inside dir, sorted by name.
// Content is read later, by the build.
func FindPDFs(dir string) ([]commonModels.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents dir %s: %w", dir, err)
	}

	var docs []commonModels.Document
	for _, entry := range entries {
		if !IsPDF(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		docs = append(docs, commonModels.Document{Name: entry.Name(), Path: path})
	}

	if len(docs) == 0 {
		return nil, commonModels.NotFoundError(MsgNoPDFs)
	}
	return docs, nil
}

func LoadDocument(dir string, name string) (commonModels.Document, error) {
	if err := commonModels.ValidateDocName(name); err != nil {
		return commonModels.Document{}, err
	}
	if !IsPDF(name) {
		return commonModels.Document{}, commonModels.ValidationError(fmt.Sprintf("%s is not a PDF file.", name))
	}

	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return commonModels.Document{}, commonModels.NotFoundError(fmt.Sprintf("PDF file %s not found.", name))
	}
	if err != nil {
		return commonModels.Document{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return commonModels.Document{}, commonModels.ValidationError(fmt.Sprintf("%s is not a regular file.", name))
	}
	return commonModels.Document{Name: name, Path: path}, nil
}
