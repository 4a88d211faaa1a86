package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-respdoc/pkg/catalog"
	"github.com/goliatone/go-respdoc/pkg/metadata"
)

// Parser implements catalog.Parser for YAML and JSON documents.
type Parser struct {
	options catalog.ParserOptions
}

var _ catalog.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options catalog.ParserOptions) catalog.Parser {
	return &Parser{options: options}
}

// Parse decodes every document and merges them in order. DTO names and
// operation ids must be unique across documents.
func (p *Parser) Parse(ctx context.Context, docs ...catalog.Document) (catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Catalog{}, err
	}
	if len(docs) == 0 {
		return catalog.Catalog{}, errors.New("catalog parser: at least one document is required")
	}

	var merged catalog.Catalog
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return catalog.Catalog{}, err
		}
		parsed, err := p.decode(doc)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("catalog parser: %s: %w", doc.Location(), err)
		}
		if err := merged.Merge(parsed); err != nil {
			return catalog.Catalog{}, fmt.Errorf("catalog parser: %s: %w", doc.Location(), err)
		}
	}
	if err := merged.Validate(); err != nil {
		return catalog.Catalog{}, fmt.Errorf("catalog parser: %w", err)
	}
	return merged, nil
}

func (p *Parser) decode(doc catalog.Document) (catalog.Catalog, error) {
	raw := doc.Raw()
	if len(bytes.TrimSpace(raw)) == 0 {
		return catalog.Catalog{}, errors.New("document is empty")
	}

	var out catalog.Catalog
	switch doc.Format() {
	case catalog.FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		if p.options.Strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&out); err != nil {
			return catalog.Catalog{}, fmt.Errorf("decode json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(p.options.Strict)
		if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return catalog.Catalog{}, fmt.Errorf("decode yaml: %w", err)
		}
	}
	if p.options.Strict {
		if err := metadata.CheckSpecKeys(out.DTOs); err != nil {
			return catalog.Catalog{}, err
		}
	}
	return out, nil
}
