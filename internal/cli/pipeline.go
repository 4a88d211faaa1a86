package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-respdoc/internal/config"
	"github.com/goliatone/go-respdoc/pkg/catalog"
	"github.com/goliatone/go-respdoc/pkg/orchestrator"

	respdoc "github.com/goliatone/go-respdoc"
)

// newOrchestrator wires the configured loader, parser and document options.
func newOrchestrator(cfg *config.Config, logger *zap.Logger) *orchestrator.Orchestrator {
	return respdoc.NewOrchestrator(
		orchestrator.WithLoader(respdoc.NewLoader(catalog.WithHTTPFallback(cfg.HTTPTimeout))),
		orchestrator.WithParser(respdoc.NewParser(catalog.WithStrict(cfg.Strict))),
		orchestrator.WithLogger(logger),
		orchestrator.WithDefaultFormat(cfg.Format),
		orchestrator.WithMaxDepth(cfg.MaxDepth),
		orchestrator.WithEnvelopeField(cfg.EnvelopeField),
		orchestrator.WithSanitizer(cfg.Sanitize),
		orchestrator.WithInfo(cfg.Info.Title, cfg.Info.Version),
	)
}

// sources resolves catalog locations; flag values replace the configured ones.
func sources(cfg *config.Config, override []string) ([]catalog.Source, error) {
	locations := cfg.Catalogs
	if len(override) > 0 {
		locations = override
	}
	out := make([]catalog.Source, 0, len(locations))
	for _, location := range locations {
		src, err := catalog.ParseSource(location)
		if err != nil {
			return nil, fmt.Errorf("catalog %q: %w", location, err)
		}
		out = append(out, src)
	}
	return out, nil
}
