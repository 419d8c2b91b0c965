package scene

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves the raw bytes of a model once.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FSFetcher reads models from a file system, e.g. os.DirFS or an embed.FS.
type FSFetcher struct {
	FS fs.FS
}

func (f FSFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(f.FS, strings.TrimPrefix(location, "/"))
}

// ErrTooLarge is returned for a download bigger than the fetcher's limit.
var ErrTooLarge = errors.New("scene: model too large")

// DefaultMaxBytes caps a single remote model.
const DefaultMaxBytes = 64 << 20

// HTTPFetcher downloads models. A nil Client uses a client with a ten
// second timeout. MaxBytes of 0 means DefaultMaxBytes.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

var default_client = &http.Client{
	Timeout: 10 * time.Second,
}

func (f HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = default_client
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %s", location, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("get %s: more than %d bytes: %w", location, limit, ErrTooLarge)
	}
	return data, nil
}

func is_remote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
