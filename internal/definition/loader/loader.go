package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formkit/pkg/definition"
)

// Loader implements definition.Loader by delegating to file, fs.FS, HTTP,
// or in-memory strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ definition.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options definition.LoaderOptions) definition.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it.
func (l *Loader) Load(ctx context.Context, src definition.Source) (definition.Document, error) {
	if src == nil {
		return definition.Document{}, errors.New("definition loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case definition.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case definition.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case definition.SourceKindURL:
		if !l.allowHTTP {
			return definition.Document{}, errors.New("definition loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	case definition.SourceKindBytes:
		payload, ok := definition.BytesPayload(src)
		if !ok {
			err = errors.New("definition loader: malformed bytes source")
		} else {
			data = payload
		}
	default:
		err = errors.New("definition loader: unsupported source kind")
	}
	if err != nil {
		return definition.Document{}, err
	}

	return definition.NewDocument(src, data)
}
