package synth

import (
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-respdoc/pkg/example"
	"github.com/goliatone/go-respdoc/pkg/metadata"
)

// DefaultMaxDepth bounds DTO nesting when no explicit limit is configured.
const DefaultMaxDepth = 32

// Options configures a Synthesizer.
type Options struct {
	// MaxDepth caps how many DTOs may be nested along one synthesis path.
	MaxDepth int
	// Logger receives debug output about skipped fields.
	Logger *zap.Logger
}

// Option mutates Options during construction.
type Option func(*Options)

// WithMaxDepth sets the nesting bound. Values <= 0 keep the default.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		if depth > 0 {
			opts.MaxDepth = depth
		}
	}
}

// WithLogger injects a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// Synthesizer builds example instances by walking DTO field metadata. It holds
// no mutable state, so a single instance may serve concurrent callers.
type Synthesizer struct {
	store    metadata.Store
	maxDepth int
	logger   *zap.Logger
}

// New constructs a Synthesizer reading from store.
func New(store metadata.Store, options ...Option) *Synthesizer {
	cfg := Options{MaxDepth: DefaultMaxDepth, Logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Synthesizer{
		store:    store,
		maxDepth: cfg.MaxDepth,
		logger:   cfg.Logger,
	}
}

// Store returns the metadata store backing the synthesizer.
func (s *Synthesizer) Store() metadata.Store {
	return s.store
}

// Synthesize builds an example for id without a generic parameter.
func (s *Synthesizer) Synthesize(id metadata.TypeID) (*example.Object, error) {
	return s.SynthesizeWithGeneric(id, "")
}

// SynthesizeWithGeneric builds an example for id, substituting generic into
// every generic-marker field. An empty generic leaves those fields unset.
// DTOs without registered fields produce an empty object.
func (s *Synthesizer) SynthesizeWithGeneric(id, generic metadata.TypeID) (*example.Object, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("synth: metadata store is nil")
	}
	state := &walkState{inStack: make(map[frame]struct{})}
	return s.build(id, generic, state)
}

// MustSynthesize panics when synthesis fails. Useful for fixtures.
func (s *Synthesizer) MustSynthesize(id, generic metadata.TypeID) *example.Object {
	obj, err := s.SynthesizeWithGeneric(id, generic)
	if err != nil {
		panic(err)
	}
	return obj
}

func (s *Synthesizer) build(id, generic metadata.TypeID, state *walkState) (*example.Object, error) {
	key := frame{id: id, generic: generic}
	if err := s.enter(key, state); err != nil {
		return nil, err
	}
	defer state.pop(key)

	out := example.NewObject()
	for _, name := range s.store.FieldNames(id) {
		field, ok := s.store.Field(id, name)
		if !ok {
			continue
		}
		value, set, err := s.fieldValue(id, field, generic, state)
		if err != nil {
			return nil, err
		}
		if set {
			out.Set(field.Name, value)
		}
	}
	return out, nil
}

func (s *Synthesizer) enter(key frame, state *walkState) error {
	id := key.id
	if state.contains(key) {
		path := append(state.path(), id)
		return &MetadataCycleError{Path: path, Repeated: id, Depth: len(path), MaxDepth: s.maxDepth}
	}
	if len(state.stack)+1 > s.maxDepth {
		path := append(state.path(), id)
		return &MetadataCycleError{Path: path, Depth: len(path), MaxDepth: s.maxDepth}
	}
	state.push(key)
	return nil
}

func (s *Synthesizer) fieldValue(owner metadata.TypeID, field metadata.FieldDescriptor, generic metadata.TypeID, state *walkState) (any, bool, error) {
	ref := field.Type
	if ref.Kind() == metadata.KindDeferred {
		resolved, err := s.resolveDeferred(ref, state)
		if err != nil {
			return nil, false, err
		}
		ref = resolved
	}

	switch ref.Kind() {
	case metadata.KindGeneric:
		if generic == "" {
			s.logger.Debug("generic field left unset",
				zap.String("dto", string(owner)),
				zap.String("field", field.Name),
			)
			return nil, false, nil
		}
		obj, err := s.build(generic, "", state)
		if err != nil {
			return nil, false, err
		}
		return s.shape(obj, field.IsArray), true, nil

	case metadata.KindPrimitive:
		value, ok := field.ExampleValue()
		return value, ok, nil

	case metadata.KindDirect:
		obj, err := s.build(ref.Target(), "", state)
		if err != nil {
			return nil, false, err
		}
		// A "[T]" shape produced by a deferred resolver wins over IsArray.
		return s.shape(obj, ref.IsList() || field.IsArray), true, nil

	default:
		s.logger.Debug("unclassified field skipped",
			zap.String("dto", string(owner)),
			zap.String("field", field.Name),
			zap.Stringer("kind", ref.Kind()),
		)
		return nil, false, nil
	}
}

// resolveDeferred follows deferred refs until a concrete classification is
// reached. A resolver chain longer than MaxDepth is reported as a cycle.
func (s *Synthesizer) resolveDeferred(ref metadata.TypeRef, state *walkState) (metadata.TypeRef, error) {
	for hops := 0; ref.Kind() == metadata.KindDeferred; hops++ {
		if hops >= s.maxDepth {
			path := state.path()
			return metadata.TypeRef{}, &MetadataCycleError{Path: path, Depth: hops + 1, MaxDepth: s.maxDepth}
		}
		ref = ref.Resolve()
	}
	return ref, nil
}

func (s *Synthesizer) shape(obj *example.Object, asArray bool) any {
	if asArray {
		return []any{obj}
	}
	return obj
}

// frame identifies one in-progress build. The same DTO may be entered again
// with a different generic argument without recursing forever.
type frame struct {
	id      metadata.TypeID
	generic metadata.TypeID
}

type walkState struct {
	stack   []metadata.TypeID
	inStack map[frame]struct{}
}

func (w *walkState) push(key frame) {
	w.stack = append(w.stack, key.id)
	w.inStack[key] = struct{}{}
}

func (w *walkState) pop(key frame) {
	if len(w.stack) == 0 {
		return
	}
	w.stack = w.stack[:len(w.stack)-1]
	delete(w.inStack, key)
}

func (w *walkState) contains(key frame) bool {
	_, ok := w.inStack[key]
	return ok
}

func (w *walkState) path() []metadata.TypeID {
	return append([]metadata.TypeID(nil), w.stack...)
}
