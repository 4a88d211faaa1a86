package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-respdoc/pkg/catalog"
)

// ErrTooLarge is returned when a catalog exceeds the configured size limit.
var ErrTooLarge = errors.New("catalog loader: document exceeds size limit")

// Loader resolves catalog sources through the file, fs.FS or HTTP strategy
// matching their kind. Every document is bounded by maxBytes.
type Loader struct {
	files    fs.FS
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

var _ catalog.Loader = (*Loader)(nil)

// New builds a Loader. URL sources stay disabled unless a client is supplied
// or the HTTP fallback is enabled.
func New(options catalog.LoaderOptions) catalog.Loader {
	l := &Loader{
		files:    options.FileSystem,
		timeout:  options.RequestTimeout,
		maxBytes: options.MaxBytes,
	}
	if l.maxBytes <= 0 {
		l.maxBytes = catalog.DefaultMaxBytes
	}
	if options.HTTPClient != nil {
		client := *options.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = l.timeout
		}
		l.client = &client
	} else if options.AllowHTTPFallback {
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Load reads src and wraps the bytes in a catalog document. Errors name the
// source location.
func (l *Loader) Load(ctx context.Context, src catalog.Source) (catalog.Document, error) {
	if src == nil {
		return catalog.Document{}, errors.New("catalog loader: source is nil")
	}
	data, err := l.read(ctx, src)
	if err != nil {
		return catalog.Document{}, fmt.Errorf("catalog loader: %s: %w", src.Location(), err)
	}
	if int64(len(data)) > l.maxBytes {
		return catalog.Document{}, fmt.Errorf("%w: %s (limit %d bytes)", ErrTooLarge, src.Location(), l.maxBytes)
	}
	return catalog.NewDocument(src, data)
}

func (l *Loader) read(ctx context.Context, src catalog.Source) ([]byte, error) {
	switch src.Kind() {
	case catalog.SourceKindFile:
		return loadFile(ctx, src.Location())
	case catalog.SourceKindFS:
		return loadFromFS(ctx, l.files, src.Location())
	case catalog.SourceKindURL:
		if l.client == nil {
			return nil, errors.New("http support disabled")
		}
		return loadHTTP(ctx, l.client, src.Location(), l.timeout, l.maxBytes)
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind())
	}
}
