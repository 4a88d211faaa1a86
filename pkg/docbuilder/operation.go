package docbuilder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-respdoc/pkg/response"
	"github.com/goliatone/go-respdoc/pkg/schema"
)

// Decoration mutates an assembled operation. Decorations run last and are
// applied verbatim.
type Decoration func(*openapi3.Operation)

// OperationBuilder accumulates the documentation of a single operation: a
// summary plus any number of response groups.
type OperationBuilder struct {
	summary     string
	description string
	operationID string
	tags        []string
	groups      []response.Group
	decorations []Decoration
}

// NewOperation starts an operation with the given summary.
func NewOperation(summary string) *OperationBuilder {
	return &OperationBuilder{summary: summary}
}

// Summary replaces the operation summary.
func (b *OperationBuilder) Summary(text string) *OperationBuilder {
	b.summary = text
	return b
}

// Description sets the long-form description.
func (b *OperationBuilder) Description(text string) *OperationBuilder {
	b.description = text
	return b
}

// OperationID sets the operationId.
func (b *OperationBuilder) OperationID(id string) *OperationBuilder {
	b.operationID = strings.TrimSpace(id)
	return b
}

// Tags appends operation tags.
func (b *OperationBuilder) Tags(tags ...string) *OperationBuilder {
	b.tags = append(b.tags, tags...)
	return b
}

// Respond adds a response group. Groups sharing a status code are merged:
// their examples are combined and a repeated title keeps the later example.
func (b *OperationBuilder) Respond(group response.Group) *OperationBuilder {
	b.groups = append(b.groups, group)
	return b
}

// Decorate registers pass-through decorations applied after assembly.
func (b *OperationBuilder) Decorate(decorations ...Decoration) *OperationBuilder {
	for _, decoration := range decorations {
		if decoration != nil {
			b.decorations = append(b.decorations, decoration)
		}
	}
	return b
}

// Groups returns the response groups merged by status code, ordered by status.
func (b *OperationBuilder) Groups() []response.Group {
	byStatus := make(map[int]*response.Group)
	var statuses []int
	for _, group := range b.groups {
		existing, ok := byStatus[group.StatusCode]
		if !ok {
			clone := group
			clone.Options = append([]response.Option(nil), group.Options...)
			byStatus[group.StatusCode] = &clone
			statuses = append(statuses, group.StatusCode)
			continue
		}
		existing.Options = append(existing.Options, group.Options...)
		if group.Description != "" {
			existing.Description = group.Description
		}
		if group.Envelope != "" {
			existing.Envelope = group.Envelope
		}
	}
	sort.Ints(statuses)
	out := make([]response.Group, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, *byStatus[status])
	}
	return out
}

// Assemble resolves every group against resolver and emits the operation,
// registering referenced models on components first.
func (b *OperationBuilder) Assemble(resolver *response.Resolver, components *schema.Components) (*openapi3.Operation, error) {
	return b.assemble(resolver, components, keep)
}

func keep(text string) string { return text }

// assemble resolves every group, registers the referenced models on
// components and emits the operation.
func (b *OperationBuilder) assemble(resolver *response.Resolver, components *schema.Components, clean func(string) string) (*openapi3.Operation, error) {
	op := openapi3.NewOperation()
	op.Summary = clean(b.summary)
	op.Description = clean(b.description)
	op.OperationID = b.operationID
	if len(b.tags) > 0 {
		op.Tags = append([]string(nil), b.tags...)
	}

	groups := b.Groups()
	opts := make([]openapi3.NewResponsesOption, 0, len(groups))
	for _, group := range groups {
		res, err := resolver.Resolve(group)
		if err != nil {
			return nil, err
		}
		for title, entry := range res.Examples {
			entry.Description = clean(entry.Description)
			res.Examples[title] = entry
		}

		// Extra models first: references are only valid for registered types.
		components.Register(resolver.Store(), res.Types()...)

		media, err := schema.Assemble(res, components)
		if err != nil {
			return nil, err
		}
		resp := schema.ResponseFor(group.StatusCode, clean(group.Description), media)
		opts = append(opts, openapi3.WithStatus(group.StatusCode, &openapi3.ResponseRef{Value: resp}))
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("docbuilder: operation %q declares no responses", b.label())
	}
	op.Responses = openapi3.NewResponses(opts...)

	for _, decoration := range b.decorations {
		decoration(op)
	}
	return op, nil
}

func (b *OperationBuilder) label() string {
	if b.operationID != "" {
		return b.operationID
	}
	return b.summary
}

// WithExtension returns a decoration that sets an x- extension on the
// operation.
func WithExtension(name string, value any) Decoration {
	return func(op *openapi3.Operation) {
		if op.Extensions == nil {
			op.Extensions = make(map[string]any)
		}
		op.Extensions[name] = value
	}
}

// WithPlainResponse returns a decoration adding a response without examples,
// for statuses documented outside of response groups.
func WithPlainResponse(status int, description string) Decoration {
	return func(op *openapi3.Operation) {
		if op.Responses == nil {
			op.Responses = openapi3.NewResponses()
			op.Responses.Delete("default")
		}
		op.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{
			Value: schema.ResponseFor(status, description, nil),
		})
	}
}
