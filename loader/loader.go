// Package loader extracts plain text from corpus sources: local word-processor
// documents and remote web pages.
package loader

// Document is a single unit of ingested content. It is immutable once produced.
type Document struct {
	Source   string
	Text     string
	Metadata map[string]string
}
