// Package respdoc documents API responses with examples synthesized from DTO
// metadata. The root package exposes the default loader, parser and
// orchestrator without leaking the internal implementations.
package respdoc

import (
	"context"

	internalLoader "github.com/goliatone/go-respdoc/internal/catalog/loader"
	internalParser "github.com/goliatone/go-respdoc/internal/catalog/parser"
	"github.com/goliatone/go-respdoc/pkg/catalog"
	"github.com/goliatone/go-respdoc/pkg/orchestrator"
)

// Transformer aliases orchestrator.Transformer for callers adjusting the
// assembled document.
type Transformer = orchestrator.Transformer

// NewLoader constructs the default catalog loader.
func NewLoader(options ...catalog.LoaderOption) catalog.Loader {
	return internalLoader.New(catalog.NewLoaderOptions(options...))
}

// NewParser constructs the default catalog parser.
func NewParser(options ...catalog.ParserOption) catalog.Parser {
	return internalParser.New(catalog.NewParserOptions(options...))
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads the catalogs, builds the documented operations and renders
// the OpenAPI document in format ("json" or "yaml").
func Generate(ctx context.Context, format string, sources []catalog.Source, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Sources: sources,
		Format:  format,
	})
}

// GenerateFromDocuments renders pre-loaded catalog documents, bypassing the
// loader stage.
func GenerateFromDocuments(ctx context.Context, format string, docs []catalog.Document, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Documents: docs,
		Format:    format,
	})
}
