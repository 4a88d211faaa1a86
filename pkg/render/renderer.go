package render

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-respdoc/pkg/docbuilder"
)

// Renderer serializes an assembled OpenAPI document.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc *openapi3.T) ([]byte, error)
}

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type jsonRenderer struct{}

// JSON returns the indented JSON renderer.
func JSON() Renderer { return jsonRenderer{} }

func (jsonRenderer) Name() string        { return FormatJSON }
func (jsonRenderer) ContentType() string { return "application/json" }

func (jsonRenderer) Render(ctx context.Context, doc *openapi3.T) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docbuilder.MarshalJSON(doc)
}

type yamlRenderer struct{}

// YAML returns the YAML renderer.
func YAML() Renderer { return yamlRenderer{} }

func (yamlRenderer) Name() string        { return FormatYAML }
func (yamlRenderer) ContentType() string { return "application/yaml" }

func (yamlRenderer) Render(ctx context.Context, doc *openapi3.T) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docbuilder.MarshalYAML(doc)
}
