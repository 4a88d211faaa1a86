package response

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-respdoc/pkg/example"
	"github.com/goliatone/go-respdoc/pkg/metadata"
	"github.com/goliatone/go-respdoc/pkg/synth"
)

// ResolverOption mutates a Resolver during construction.
type ResolverOption func(*Resolver)

// WithEnvelopeField overrides the envelope slot that receives the payload.
func WithEnvelopeField(name string) ResolverOption {
	return func(r *Resolver) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			r.envelopeField = trimmed
		}
	}
}

// WithLogger injects a zap logger.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver turns response groups into named examples and the set of DTOs
// they reference.
type Resolver struct {
	synth         *synth.Synthesizer
	envelopeField string
	logger        *zap.Logger
}

// NewResolver constructs a Resolver backed by s.
func NewResolver(s *synth.Synthesizer, options ...ResolverOption) *Resolver {
	r := &Resolver{
		synth:         s,
		envelopeField: DefaultEnvelopeField,
		logger:        zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// EnvelopeField returns the configured payload slot name.
func (r *Resolver) EnvelopeField() string {
	return r.envelopeField
}

// Store returns the metadata store examples are synthesized from.
func (r *Resolver) Store() metadata.Store {
	if r == nil || r.synth == nil {
		return nil
	}
	return r.synth.Store()
}

// Resolve synthesizes every option of group. Titles must be unique within the
// group; a repeated title replaces the earlier example. A group without
// options resolves to no examples and no models.
func (r *Resolver) Resolve(group Group) (Resolution, error) {
	if r == nil || r.synth == nil {
		return Resolution{}, fmt.Errorf("response: synthesizer is nil")
	}

	res := Resolution{
		StatusCode:  group.StatusCode,
		Description: group.Description,
		Examples:    make(map[string]Example, len(group.Options)),
		Envelope:    group.Envelope,
	}

	var models, generics []metadata.TypeID
	for idx, option := range group.Options {
		if strings.TrimSpace(string(option.Model)) == "" {
			return Resolution{}, fmt.Errorf("%w (status %d, option %d)", ErrMissingModel, group.StatusCode, idx)
		}

		value, err := r.resolveOption(option, group.Envelope)
		if err != nil {
			return Resolution{}, fmt.Errorf("response: status %d example %q: %w", group.StatusCode, option.ExampleTitle, err)
		}

		if _, exists := res.Examples[option.ExampleTitle]; exists {
			r.logger.Debug("example title overwritten",
				zap.Int("status", group.StatusCode),
				zap.String("title", option.ExampleTitle),
			)
		} else {
			res.Titles = append(res.Titles, option.ExampleTitle)
		}
		res.Examples[option.ExampleTitle] = Example{
			Value:       value,
			Description: option.ExampleDescription,
		}

		models = append(models, option.Model)
		if option.Generic != "" {
			generics = append(generics, option.Generic)
		}
	}

	for _, id := range dedupe(append(models, generics...)) {
		if group.Envelope != "" && id == group.Envelope {
			continue
		}
		res.Models = append(res.Models, id)
	}
	return res, nil
}

func (r *Resolver) resolveOption(option Option, envelope metadata.TypeID) (*example.Object, error) {
	payload, err := r.synth.SynthesizeWithGeneric(option.Model, option.Generic)
	if err != nil {
		return nil, err
	}

	if envelope == "" {
		if option.OverwriteValue == nil {
			return payload, nil
		}
		return example.Merge(payload, option.OverwriteValue), nil
	}

	wrapper, err := r.synth.Synthesize(envelope)
	if err != nil {
		return nil, err
	}
	if option.OverwriteValue != nil {
		wrapper.Set(r.envelopeField, example.Merge(payload, option.OverwriteValue))
	} else {
		wrapper.Set(r.envelopeField, payload)
	}
	return wrapper, nil
}
