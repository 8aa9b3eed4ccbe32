package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
)

// DocxLoader reads .docx files from disk. Other extensions are not recognized.
type DocxLoader struct{}

func (l *DocxLoader) CanRead(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx")
}

func (l *DocxLoader) Load(path string) (Document, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	return Document{
		Source:   path,
		Text:     res.Body,
		Metadata: map[string]string{"source": path},
	}, nil
}
