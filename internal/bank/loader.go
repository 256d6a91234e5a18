package bank

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Loader fetches the full bank for a category.
type Loader interface {
	Load(ctx context.Context, cat Category) ([]Question, error)
}

//go:embed banks/*.json
var embedded embed.FS

// maxBankSize caps how much of a remote document is read.
const maxBankSize = 8 << 20

// FSLoader reads bank documents from a file system.
type FSLoader struct {
	fsys fs.FS
	name string
	log  *zap.Logger
}

// NewFSLoader creates a loader over fsys. name identifies the source in
// error messages.
func NewFSLoader(fsys fs.FS, name string, log *zap.Logger) *FSLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &FSLoader{fsys: fsys, name: name, log: log}
}

// NewDirLoader creates a loader reading from a local directory.
func NewDirLoader(dir string, log *zap.Logger) *FSLoader {
	return NewFSLoader(os.DirFS(dir), dir, log)
}

// Embedded returns a loader over the sample banks compiled into the binary.
func Embedded(log *zap.Logger) *FSLoader {
	sub, err := fs.Sub(embedded, "banks")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return NewFSLoader(sub, "embedded", log)
}

// EmbeddedFS exposes the bundled banks, e.g. for serving them over HTTP.
func EmbeddedFS() fs.FS {
	sub, _ := fs.Sub(embedded, "banks")
	return sub
}

func (l *FSLoader) Load(ctx context.Context, cat Category) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, notFound(cat, l.name, err)
	}
	l.log.Debug("loading bank", zap.String("category", cat.ID), zap.String("source", l.name), zap.String("file", cat.File))

	data, err := fs.ReadFile(l.fsys, cat.File)
	if err != nil {
		return nil, notFound(cat, l.name, err)
	}
	questions, err := Parse(data, FormatFor(cat.File), cat.Kind)
	if err != nil {
		return nil, malformed(cat, l.name, err)
	}
	l.log.Info("bank loaded", zap.String("category", cat.ID), zap.Int("questions", len(questions)))
	return questions, nil
}

// HTTPLoader fetches bank documents relative to a base URL.
type HTTPLoader struct {
	base   *url.URL
	client *http.Client
	log    *zap.Logger
}

// HTTPOption configures an HTTPLoader.
type HTTPOption func(*HTTPLoader)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(l *HTTPLoader) { l.client = c }
}

// NewHTTPLoader creates a loader for base, which must be an absolute
// http or https URL.
func NewHTTPLoader(base string, log *zap.Logger, opts ...HTTPOption) (*HTTPLoader, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse bank URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported bank URL scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &HTTPLoader{
		base:   u,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

func (l *HTTPLoader) Load(ctx context.Context, cat Category) ([]Question, error) {
	ref, err := url.Parse(cat.File)
	if err != nil {
		return nil, notFound(cat, l.base.String(), fmt.Errorf("bank file name: %w", err))
	}
	target := l.base.ResolveReference(ref).String()
	l.log.Debug("fetching bank", zap.String("category", cat.ID), zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, notFound(cat, target, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, notFound(cat, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, notFound(cat, target, fmt.Errorf("HTTP error: status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBankSize))
	if err != nil {
		return nil, notFound(cat, target, fmt.Errorf("read body: %w", err))
	}
	questions, err := Parse(data, FormatFor(ref.Path), cat.Kind)
	if err != nil {
		return nil, malformed(cat, target, err)
	}
	l.log.Info("bank fetched", zap.String("category", cat.ID), zap.Int("questions", len(questions)))
	return questions, nil
}

// NewLoader picks a loader for source: an http(s) URL, a directory, or the
// embedded sample banks when source is empty.
func NewLoader(source string, log *zap.Logger) (Loader, error) {
	switch {
	case source == "":
		return Embedded(log), nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		l, err := NewHTTPLoader(source, log)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("bank directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("bank source %s is not a directory", source)
	}
	return NewDirLoader(source, log), nil
}
