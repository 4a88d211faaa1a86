package response

import (
	"errors"

	"github.com/goliatone/go-respdoc/pkg/metadata"
)

// DefaultEnvelopeField is the envelope slot that receives the payload.
const DefaultEnvelopeField = "data"

var (
	// ErrMissingModel is returned when an option does not reference a DTO.
	ErrMissingModel = errors.New("response: option model is required")
)

// Option is one named example within a documented response.
type Option struct {
	// Model is the DTO synthesized for this example.
	Model metadata.TypeID `json:"model" yaml:"model"`
	// Generic is substituted into the model's generic-marker fields.
	Generic metadata.TypeID `json:"generic,omitempty" yaml:"generic,omitempty"`
	// ExampleTitle keys the example; it must be unique within the group.
	ExampleTitle string `json:"title" yaml:"title"`
	// ExampleDescription explains when this response is returned.
	ExampleDescription string `json:"description" yaml:"description"`
	// OverwriteValue replaces top-level keys of the synthesized payload.
	OverwriteValue map[string]any `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

// Group collects the options documented under one status code, optionally
// wrapped in an envelope DTO.
type Group struct {
	StatusCode  int             `json:"status" yaml:"status"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Envelope    metadata.TypeID `json:"envelope,omitempty" yaml:"envelope,omitempty"`
	Options     []Option        `json:"options" yaml:"options"`
}

// Example is a resolved named example.
type Example struct {
	Value       any    `json:"value"`
	Description string `json:"description"`
}

// Resolution is the output of resolving a Group.
type Resolution struct {
	StatusCode  int
	Description string
	// Examples maps example titles to their resolved values.
	Examples map[string]Example
	// Titles lists example titles in first-appearance order.
	Titles []string
	// Models lists the distinct non-envelope DTOs referenced by the group:
	// option models first, then generics, in first-appearance order.
	Models []metadata.TypeID
	// Envelope is the wrapping DTO, empty when none is configured.
	Envelope metadata.TypeID
}

// Types returns every DTO the resolution references, envelope included, with
// duplicates collapsed. These must be registered as extra models before any
// schema reference is emitted.
func (r Resolution) Types() []metadata.TypeID {
	ids := append([]metadata.TypeID(nil), r.Models...)
	if r.Envelope != "" {
		ids = append(ids, r.Envelope)
	}
	return dedupe(ids)
}

func dedupe(ids []metadata.TypeID) []metadata.TypeID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[metadata.TypeID]struct{}, len(ids))
	out := make([]metadata.TypeID, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
