package imaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxFetchBytes caps remote downloads so a misbehaving endpoint cannot
// exhaust memory mid-batch.
const maxFetchBytes = 64 << 20

// Loader resolves a source identifier into raw image bytes. Sources are
// local paths, data:image/ payloads, or http(s) URLs.
type Loader struct {
	client *http.Client
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
	}
}

// Load fetches the bytes behind source.
func (l *Loader) Load(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetch(ctx, source)
	case strings.HasPrefix(source, "data:image/"):
		return decodeDataURI(source)
	default:
		return os.ReadFile(source)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxFetchBytes {
		return nil, fmt.Errorf("fetch %s: image exceeds %d bytes", url, maxFetchBytes)
	}
	return data, nil
}

func decodeDataURI(source string) ([]byte, error) {
	comma := strings.Index(source, ",")
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI: missing payload")
	}

	header := source[:comma]
	payload := source[comma+1:]
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed base64 payload: %w", err)
	}
	return data, nil
}
