package docbuilder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-respdoc/pkg/metadata"
	"github.com/goliatone/go-respdoc/pkg/response"
	"github.com/goliatone/go-respdoc/pkg/schema"
	"github.com/goliatone/go-respdoc/pkg/synth"
)

// OpenAPIVersion is the document version emitted by Build.
const OpenAPIVersion = "3.0.3"

var (
	// ErrDuplicateOperation is returned when two operations share a method and path.
	ErrDuplicateOperation = errors.New("docbuilder: duplicate operation")
	// ErrUnsupportedMethod is returned for HTTP methods OpenAPI cannot express.
	ErrUnsupportedMethod = errors.New("docbuilder: unsupported method")
)

var supportedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPut:     {},
	http.MethodPost:    {},
	http.MethodDelete:  {},
	http.MethodPatch:   {},
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

var pathParam = regexp.MustCompile(`\{([^{}]+)\}`)

// Option configures a DocumentBuilder.
type Option func(*DocumentBuilder)

// WithLogger injects a zap logger shared with the synthesizer and resolver.
func WithLogger(logger *zap.Logger) Option {
	return func(b *DocumentBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSanitizer strips markup from summaries and descriptions. Documentation
// UIs render these fields as HTML.
func WithSanitizer(enabled bool) Option {
	return func(b *DocumentBuilder) {
		if enabled {
			b.policy = bluemonday.StrictPolicy()
			return
		}
		b.policy = nil
	}
}

// WithEnvelopeField overrides the envelope slot receiving the payload.
func WithEnvelopeField(name string) Option {
	return func(b *DocumentBuilder) {
		b.envelopeField = name
	}
}

// WithMaxDepth bounds nesting during example synthesis.
func WithMaxDepth(depth int) Option {
	return func(b *DocumentBuilder) {
		b.maxDepth = depth
	}
}

type route struct {
	method string
	path   string
	op     *OperationBuilder
}

// DocumentBuilder assembles a complete OpenAPI document from operations whose
// responses are documented with synthesized examples.
type DocumentBuilder struct {
	store         metadata.Store
	logger        *zap.Logger
	policy        *bluemonday.Policy
	envelopeField string
	maxDepth      int

	info    openapi3.Info
	servers openapi3.Servers
	routes  []route
}

// New returns a DocumentBuilder reading DTO metadata from store.
func New(store metadata.Store, options ...Option) *DocumentBuilder {
	b := &DocumentBuilder{
		store:    store,
		logger:   zap.NewNop(),
		maxDepth: synth.DefaultMaxDepth,
		info:     openapi3.Info{Title: "API", Version: "1.0.0"},
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Info sets the document title, version and description.
func (b *DocumentBuilder) Info(title, version, description string) *DocumentBuilder {
	if title != "" {
		b.info.Title = title
	}
	if version != "" {
		b.info.Version = version
	}
	b.info.Description = description
	return b
}

// Server appends a server entry.
func (b *DocumentBuilder) Server(url, description string) *DocumentBuilder {
	b.servers = append(b.servers, &openapi3.Server{URL: url, Description: description})
	return b
}

// Operation registers op under method and path.
func (b *DocumentBuilder) Operation(method, path string, op *OperationBuilder) *DocumentBuilder {
	b.routes = append(b.routes, route{
		method: strings.ToUpper(strings.TrimSpace(method)),
		path:   strings.TrimSpace(path),
		op:     op,
	})
	return b
}

// Len reports the number of registered operations.
func (b *DocumentBuilder) Len() int {
	return len(b.routes)
}

// Build assembles and validates the document. Example values are not
// validated against their schemas.
func (b *DocumentBuilder) Build(ctx context.Context) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("docbuilder: metadata store is nil")
	}

	s := synth.New(b.store, synth.WithMaxDepth(b.maxDepth), synth.WithLogger(b.logger))
	resolver := response.NewResolver(s,
		response.WithEnvelopeField(b.envelopeField),
		response.WithLogger(b.logger),
	)
	components := schema.NewComponents()

	info := b.info
	info.Description = b.clean(info.Description)
	doc := &openapi3.T{
		OpenAPI:    OpenAPIVersion,
		Info:       &info,
		Servers:    append(openapi3.Servers(nil), b.servers...),
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: make(openapi3.Schemas)},
	}

	seen := make(map[string]struct{}, len(b.routes))
	for _, r := range b.routes {
		if _, ok := supportedMethods[r.method]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, r.method)
		}
		if !strings.HasPrefix(r.path, "/") {
			return nil, fmt.Errorf("docbuilder: path %q must start with /", r.path)
		}
		key := r.method + " " + r.path
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOperation, key)
		}
		seen[key] = struct{}{}
		if r.op == nil {
			return nil, fmt.Errorf("docbuilder: %s: operation is nil", key)
		}

		op, err := r.op.assemble(resolver, components, b.clean)
		if err != nil {
			return nil, fmt.Errorf("docbuilder: %s: %w", key, err)
		}
		declarePathParameters(op, r.path)

		item := doc.Paths.Value(r.path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(r.path, item)
		}
		item.SetOperation(r.method, op)
		b.logger.Debug("operation assembled",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Int("responses", op.Responses.Len()),
		)
	}

	components.Apply(doc.Components)

	if err := validate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *DocumentBuilder) clean(text string) string {
	if b.policy == nil || text == "" {
		return text
	}
	return b.policy.Sanitize(text)
}

// declarePathParameters adds a string path parameter for every template
// segment the operation does not already declare.
func declarePathParameters(op *openapi3.Operation, path string) {
	for _, match := range pathParam.FindAllStringSubmatch(path, -1) {
		name := match[1]
		if op.Parameters.GetByInAndName(openapi3.ParameterInPath, name) != nil {
			continue
		}
		param := openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
	}
}

// validate reloads the serialized document so component references resolve,
// then runs kin-openapi validation on it.
func validate(ctx context.Context, doc *openapi3.T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docbuilder: marshal document: %w", err)
	}
	loader := &openapi3.Loader{Context: ctx}
	loaded, err := loader.LoadFromData(raw)
	if err != nil {
		return fmt.Errorf("docbuilder: load document: %w", err)
	}
	if err := loaded.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("docbuilder: validate document: %w", err)
	}
	return nil
}

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("docbuilder: document is nil")
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("docbuilder: marshal json: %w", err)
	}
	return append(out, '\n'), nil
}

// MarshalYAML renders doc as YAML, keeping the key order of the JSON form.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("docbuilder: document is nil")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docbuilder: marshal json: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("docbuilder: convert to yaml: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("docbuilder: marshal yaml: %w", err)
	}
	return out, nil
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
