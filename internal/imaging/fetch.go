package imaging

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// maxFetchBytes bounds the logo payload read from remote or data sources
const maxFetchBytes = 8 << 20

// Fetcher resolves a logo reference to raw bytes. A reference is a local
// file path, an http(s) URL, or an RFC 2397 data URL.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with a bounded-timeout HTTP client
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch loads the bytes behind ref. Unlike DecodeLogo it returns errors:
// a reference the caller named explicitly should fail loudly, not soft.
func (f *Fetcher) Fetch(ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return f.fetchRemote(ref)
	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to read logo file: %w", err)
		}
		return data, nil
	}
}

func (f *Fetcher) fetchRemote(ref string) ([]byte, error) {
	resp, err := f.client.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch logo: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	return data, nil
}

// decodeDataURL decodes an RFC 2397 data URL, for example
// data:image/png;base64,<payload>
func decodeDataURL(ref string) ([]byte, error) {
	s := strings.TrimPrefix(ref, "data:")
	meta, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	for _, part := range strings.Split(meta, ";") {
		if strings.EqualFold(strings.TrimSpace(part), "base64") {
			data, err := base64.StdEncoding.DecodeString(payload)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 data URL: %w", err)
			}
			return data, nil
		}
	}

	// The non-base64 form is URL-escaped
	decoded, err := url.QueryUnescape(payload)
	if err != nil {
		return []byte(payload), nil
	}
	return []byte(decoded), nil
}
