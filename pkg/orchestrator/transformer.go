package orchestrator

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

// Transformer mutates an assembled document before it is rendered.
type Transformer interface {
	Transform(ctx context.Context, doc *openapi3.T) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *openapi3.T) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *openapi3.T) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// ServerTransformer appends server entries missing from the document.
func ServerTransformer(urls ...string) Transformer {
	return TransformerFunc(func(_ context.Context, doc *openapi3.T) error {
		for _, url := range urls {
			if url == "" || hasServer(doc.Servers, url) {
				continue
			}
			doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
		}
		return nil
	})
}

func hasServer(servers openapi3.Servers, url string) bool {
	for _, server := range servers {
		if server != nil && server.URL == url {
			return true
		}
	}
	return false
}
