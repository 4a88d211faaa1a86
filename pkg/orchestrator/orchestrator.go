package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-respdoc/internal/catalog/loader"
	internalParser "github.com/goliatone/go-respdoc/internal/catalog/parser"
	"github.com/goliatone/go-respdoc/pkg/catalog"
	"github.com/goliatone/go-respdoc/pkg/docbuilder"
	"github.com/goliatone/go-respdoc/pkg/example"
	"github.com/goliatone/go-respdoc/pkg/metadata"
	"github.com/goliatone/go-respdoc/pkg/render"
	"github.com/goliatone/go-respdoc/pkg/synth"
)

const defaultFormat = render.FormatJSON

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom catalog loader.
func WithLoader(loader catalog.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom catalog parser.
func WithParser(parser catalog.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultFormat overrides the renderer used when a request omits Format.
func WithDefaultFormat(name string) Option {
	return func(o *Orchestrator) {
		o.defaultFormat = name
	}
}

// WithLogger injects a zap logger passed down to every stage.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxDepth bounds nesting during example synthesis.
func WithMaxDepth(depth int) Option {
	return func(o *Orchestrator) {
		o.maxDepth = depth
	}
}

// WithEnvelopeField overrides the envelope slot receiving the payload.
func WithEnvelopeField(name string) Option {
	return func(o *Orchestrator) {
		o.envelopeField = name
	}
}

// WithSanitizer toggles markup stripping on descriptions.
func WithSanitizer(enabled bool) Option {
	return func(o *Orchestrator) {
		o.sanitize = enabled
	}
}

// WithInfo sets document info used unless a catalog declares its own.
func WithInfo(title, version string) Option {
	return func(o *Orchestrator) {
		o.title = title
		o.version = version
	}
}

// WithTransformer registers a Transformer run on the assembled document
// before rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// Orchestrator coordinates loading catalogs, building the documented
// operations and rendering the resulting OpenAPI document.
type Orchestrator struct {
	loader        catalog.Loader
	parser        catalog.Parser
	registry      *render.Registry
	defaultFormat string
	logger        *zap.Logger
	maxDepth      int
	envelopeField string
	sanitize      bool
	title         string
	version       string
	transformers  []Transformer
}

// New constructs an Orchestrator. Missing dependencies are initialised with
// the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultFormat: defaultFormat,
		logger:        zap.NewNop(),
		maxDepth:      synth.DefaultMaxDepth,
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if o.loader == nil {
		o.loader = internalLoader.New(catalog.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(catalog.NewParserOptions())
	}
	if o.registry == nil {
		o.registry = render.NewDefaultRegistry()
	}
	if o.defaultFormat == "" {
		o.defaultFormat = defaultFormat
	}
	return o
}

// Request describes the catalogs to document and the output format.
type Request struct {
	// Sources are loaded in order. Optional when Documents is supplied.
	Sources []catalog.Source

	// Documents bypass the loader. They are parsed after Sources.
	Documents []catalog.Document

	// Format names the renderer; empty selects the default format.
	Format string
}

// Catalog loads and parses every catalog named by req.
func (o *Orchestrator) Catalog(ctx context.Context, req Request) (catalog.Catalog, error) {
	if ctx == nil {
		return catalog.Catalog{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return catalog.Catalog{}, err
	}
	if len(req.Sources) == 0 && len(req.Documents) == 0 {
		return catalog.Catalog{}, errors.New("orchestrator: source or document is required")
	}

	docs := make([]catalog.Document, 0, len(req.Sources)+len(req.Documents))
	for _, src := range req.Sources {
		doc, err := o.loader.Load(ctx, src)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("orchestrator: load catalog: %w", err)
		}
		o.logger.Debug("catalog loaded", zap.String("location", doc.Location()))
		docs = append(docs, doc)
	}
	docs = append(docs, req.Documents...)

	parsed, err := o.parser.Parse(ctx, docs...)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("orchestrator: parse catalog: %w", err)
	}
	return parsed, nil
}

// Document builds and validates the OpenAPI document for req.
func (o *Orchestrator) Document(ctx context.Context, req Request) (*openapi3.T, error) {
	parsed, err := o.Catalog(ctx, req)
	if err != nil {
		return nil, err
	}
	reg, err := parsed.Registry()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: register dtos: %w", err)
	}

	builder := docbuilder.New(reg,
		docbuilder.WithLogger(o.logger),
		docbuilder.WithMaxDepth(o.maxDepth),
		docbuilder.WithEnvelopeField(o.envelopeField),
		docbuilder.WithSanitizer(o.sanitize),
	)
	builder.Info(o.title, o.version, "")
	parsed.Apply(builder)

	doc, err := builder.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build document: %w", err)
	}
	for _, t := range o.transformers {
		if err := t.Transform(ctx, doc); err != nil {
			return nil, fmt.Errorf("orchestrator: transform document: %w", err)
		}
	}
	o.logger.Debug("document built",
		zap.Int("dtos", reg.Len()),
		zap.Int("operations", builder.Len()),
	)
	return doc, nil
}

// Generate builds the document for req and renders it with the requested
// format.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	renderer, err := o.Renderer(req.Format)
	if err != nil {
		return nil, err
	}
	doc, err := o.Document(ctx, req)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Example synthesizes a single DTO declared by the catalogs in req.
func (o *Orchestrator) Example(ctx context.Context, req Request, id, generic metadata.TypeID) (*example.Object, error) {
	parsed, err := o.Catalog(ctx, req)
	if err != nil {
		return nil, err
	}
	reg, err := parsed.Registry()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: register dtos: %w", err)
	}
	if !reg.Has(id) {
		return nil, fmt.Errorf("orchestrator: dto %q is not declared", id)
	}
	s := synth.New(reg, synth.WithMaxDepth(o.maxDepth), synth.WithLogger(o.logger))
	return s.SynthesizeWithGeneric(id, generic)
}

// Renderer resolves a renderer by format name, falling back to the default.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultFormat
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: format %q: %w", target, err)
	}
	return renderer, nil
}
