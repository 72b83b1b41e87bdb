// Package source loads raw level documents from where the data is published:
// an HTTP location or a local directory tree.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nandoku-quiz-service/internal/domain"
)

// maxDocumentSize caps how much of a level document is read.
const maxDocumentSize = 8 << 20

// Loader is satisfied by both HTTPLoader and DirLoader.
type Loader interface {
	LoadLevel(ctx context.Context, level domain.Level) (string, error)
}

// New picks a loader for baseURL: http(s) locations are fetched over the
// network, anything else is treated as a directory (file:// is accepted).
func New(baseURL, fileName string, timeout time.Duration) Loader {
	u, err := url.Parse(baseURL)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return NewHTTPLoader(baseURL, fileName, &http.Client{Timeout: timeout})
	}
	root := strings.TrimPrefix(baseURL, "file://")
	return NewDirLoader(root, fileName)
}

// HTTPLoader fetches {baseURL}/{level dir}/{fileName}.
type HTTPLoader struct {
	baseURL  string
	fileName string
	client   *http.Client
}

func NewHTTPLoader(baseURL, fileName string, client *http.Client) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{baseURL: baseURL, fileName: fileName, client: client}
}

func (l *HTTPLoader) LoadLevel(ctx context.Context, level domain.Level) (string, error) {
	target := level.Location(l.baseURL) + l.fileName
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", domain.ErrDataUnavailable, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: fetch %s: status %d", domain.ErrDataUnavailable, target, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrDataUnavailable, target, err)
	}
	return string(body), nil
}

// DirLoader reads {root}/{level dir}/{fileName} from the local filesystem.
type DirLoader struct {
	root     string
	fileName string
}

func NewDirLoader(root, fileName string) *DirLoader {
	return &DirLoader{root: root, fileName: fileName}
}

func (l *DirLoader) LoadLevel(_ context.Context, level domain.Level) (string, error) {
	path := filepath.Join(filepath.FromSlash(level.Location(l.root)), l.fileName)
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrDataUnavailable, path, err)
	}
	return string(body), nil
}
