// Package docutil fetches source documents and extracts their text.
package docutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxDocumentSize caps how much of a remote document is read into memory.
const maxDocumentSize = 100 << 20 // 100 MiB

// Fetch downloads a document from fileURL and returns its raw bytes.
func Fetch(ctx context.Context, client *http.Client, fileURL string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch document: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read document body: %w", err)
	}

	return data, nil
}

// ExtractText parses PDF bytes and returns the concatenated plain text of all
// pages. Pages that cannot be parsed are skipped.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	pageCount := reader.NumPage()
	var content strings.Builder

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(text)
	}

	return content.String(), nil
}

// FilenameFromURL returns the last path segment of a URL, the name shown in
// brief titles. Returns "" when the URL has no usable path.
func FilenameFromURL(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		// Fall back to a plain split for non-URL strings.
		parts := strings.Split(fileURL, "/")
		return parts[len(parts)-1]
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
