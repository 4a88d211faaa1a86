package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-respdoc/pkg/docbuilder"
	"github.com/goliatone/go-respdoc/pkg/metadata"
	"github.com/goliatone/go-respdoc/pkg/response"
)

// Catalog is the parsed form of one or more catalog documents.
type Catalog struct {
	Info       Info                        `json:"info" yaml:"info"`
	DTOs       map[string]metadata.DTOSpec `json:"dtos" yaml:"dtos"`
	Operations []Operation                 `json:"operations" yaml:"operations"`
}

// Info carries optional document metadata declared by a catalog.
type Info struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Servers     []Server `json:"servers,omitempty" yaml:"servers,omitempty"`
}

// Server is a declared server entry.
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Operation declares one documented endpoint.
type Operation struct {
	ID          string           `json:"id" yaml:"id"`
	Method      string           `json:"method" yaml:"method"`
	Path        string           `json:"path" yaml:"path"`
	Summary     string           `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	Responses   []response.Group `json:"responses" yaml:"responses"`
}

// Parser converts raw documents into a merged Catalog.
type Parser interface {
	Parse(ctx context.Context, docs ...Document) (Catalog, error)
}

// ParserOptions configures a Parser.
type ParserOptions struct {
	// Strict rejects unknown keys.
	Strict bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithStrict toggles rejection of unknown keys.
func WithStrict(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Strict = enabled
	}
}

// NewParserOptions applies options and returns the resulting configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Merge folds other into c. DTO names and operation ids must stay unique.
func (c *Catalog) Merge(other Catalog) error {
	if c.DTOs == nil {
		c.DTOs = make(map[string]metadata.DTOSpec)
	}
	for name, spec := range other.DTOs {
		if _, exists := c.DTOs[name]; exists {
			return fmt.Errorf("catalog: duplicate dto %q", name)
		}
		c.DTOs[name] = spec
	}
	ids := make(map[string]struct{}, len(c.Operations))
	for _, op := range c.Operations {
		if op.ID != "" {
			ids[op.ID] = struct{}{}
		}
	}
	for _, op := range other.Operations {
		if op.ID != "" {
			if _, exists := ids[op.ID]; exists {
				return fmt.Errorf("catalog: duplicate operation id %q", op.ID)
			}
			ids[op.ID] = struct{}{}
		}
		c.Operations = append(c.Operations, op)
	}
	if other.Info.Title != "" {
		c.Info.Title = other.Info.Title
	}
	if other.Info.Version != "" {
		c.Info.Version = other.Info.Version
	}
	if other.Info.Description != "" {
		c.Info.Description = other.Info.Description
	}
	c.Info.Servers = append(c.Info.Servers, other.Info.Servers...)
	return nil
}

// DTONames returns the declared DTO names in sorted order.
func (c Catalog) DTONames() []string {
	names := make([]string, 0, len(c.DTOs))
	for name := range c.DTOs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry registers every declared DTO on a fresh registry.
func (c Catalog) Registry() (*metadata.Registry, error) {
	reg, err := metadata.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := metadata.RegisterSpecs(reg, c.DTOs); err != nil {
		return nil, err
	}
	return reg, nil
}

// Validate checks operations for the fields a document needs.
func (c Catalog) Validate() error {
	for idx, op := range c.Operations {
		label := op.ID
		if label == "" {
			label = fmt.Sprintf("#%d", idx)
		}
		if strings.TrimSpace(op.Method) == "" {
			return fmt.Errorf("catalog: operation %s: method is required", label)
		}
		if strings.TrimSpace(op.Path) == "" {
			return fmt.Errorf("catalog: operation %s: path is required", label)
		}
		if len(op.Responses) == 0 {
			return fmt.Errorf("catalog: operation %s: at least one response is required", label)
		}
		for _, group := range op.Responses {
			if group.StatusCode < 100 || group.StatusCode > 599 {
				return fmt.Errorf("catalog: operation %s: invalid status %d", label, group.StatusCode)
			}
		}
	}
	return nil
}

// Apply registers the catalog info and operations on builder.
func (c Catalog) Apply(builder *docbuilder.DocumentBuilder) {
	if builder == nil {
		return
	}
	if c.Info.Title != "" || c.Info.Version != "" || c.Info.Description != "" {
		builder.Info(c.Info.Title, c.Info.Version, c.Info.Description)
	}
	for _, server := range c.Info.Servers {
		builder.Server(server.URL, server.Description)
	}
	for _, op := range c.Operations {
		ob := docbuilder.NewOperation(op.Summary).
			Description(op.Description).
			OperationID(op.ID).
			Tags(op.Tags...)
		for _, group := range op.Responses {
			ob.Respond(group)
		}
		builder.Operation(op.Method, op.Path, ob)
	}
}
