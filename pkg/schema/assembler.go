package schema

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-respdoc/pkg/response"
)

// MediaTypeJSON is the content type examples are published under.
const MediaTypeJSON = "application/json"

// ErrUnregisteredModel is returned when a schema reference would point at a
// DTO that has not been registered as an extra model.
var ErrUnregisteredModel = errors.New("schema: model is not registered")

// Assemble builds the media type for a resolved response group: a oneOf over
// the referenced models and, when an envelope is configured, additional
// properties constrained by the envelope schema. Every referenced type must
// already be registered on components.
func Assemble(res response.Resolution, components *Components) (*openapi3.MediaType, error) {
	for _, id := range res.Types() {
		if !components.Has(id) {
			return nil, fmt.Errorf("%w: %s (status %d)", ErrUnregisteredModel, id, res.StatusCode)
		}
	}

	value := &openapi3.Schema{}
	for _, id := range res.Models {
		value.OneOf = append(value.OneOf, openapi3.NewSchemaRef(RefPath(id), nil))
	}
	if res.Envelope != "" {
		value.AdditionalProperties = openapi3.AdditionalProperties{
			Schema: openapi3.NewSchemaRef(RefPath(res.Envelope), nil),
		}
	}

	media := openapi3.NewMediaType()
	media.Schema = openapi3.NewSchemaRef("", value)
	media.Examples = make(openapi3.Examples, len(res.Examples))
	for _, title := range res.Titles {
		entry, ok := res.Examples[title]
		if !ok {
			continue
		}
		ex := openapi3.NewExample(entry.Value)
		ex.Description = entry.Description
		media.Examples[title] = &openapi3.ExampleRef{Value: ex}
	}
	return media, nil
}

// ResponseFor wraps media in a response object. An empty description falls
// back to the HTTP status text.
func ResponseFor(status int, description string, media *openapi3.MediaType) *openapi3.Response {
	if description == "" {
		description = http.StatusText(status)
	}
	if description == "" {
		description = strconv.Itoa(status)
	}
	resp := openapi3.NewResponse().WithDescription(description)
	if media != nil {
		resp.Content = openapi3.Content{MediaTypeJSON: media}
	}
	return resp
}
