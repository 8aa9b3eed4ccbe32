package loader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"code.sajari.com/docconv/v2"
)

// WebLoader fetches a page over plain HTTP(S) GET and extracts its text content.
type WebLoader struct {
	client *http.Client
}

func NewWebLoader(timeout time.Duration) *WebLoader {
	return &WebLoader{
		client: &http.Client{Timeout: timeout},
	}
}

func (l *WebLoader) Load(ctx context.Context, url string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}

	res, err := docconv.Convert(resp.Body, "text/html", false)
	if err != nil {
		return Document{}, fmt.Errorf("failed to extract text from %s: %w", url, err)
	}

	return Document{
		Source:   url,
		Text:     res.Body,
		Metadata: map[string]string{"source": url},
	}, nil
}
