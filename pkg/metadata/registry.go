package metadata

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrEmptyTypeID is returned when registering a DTO without an identifier.
	ErrEmptyTypeID = errors.New("metadata: type id is required")
	// ErrDuplicateField is returned when a DTO declares the same field twice.
	ErrDuplicateField = errors.New("metadata: duplicate field")
)

// Registry is an in-memory Store keyed by TypeID. Registration normally happens
// once at documentation-build time; reads are lock-protected so lookups can run
// concurrently with late registrations.
type Registry struct {
	mu    sync.RWMutex
	dtos  map[TypeID]DTO
	order []TypeID
}

var _ Store = (*Registry)(nil)

// NewRegistry constructs an empty registry, optionally seeded with dtos.
func NewRegistry(dtos ...DTO) (*Registry, error) {
	reg := &Registry{dtos: make(map[TypeID]DTO)}
	for _, dto := range dtos {
		if err := reg.Register(dto); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// MustNewRegistry panics when registration fails. Useful for fixtures.
func MustNewRegistry(dtos ...DTO) *Registry {
	reg, err := NewRegistry(dtos...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Register adds or replaces a DTO declaration. Field names must be non-empty
// and unique within the DTO.
func (r *Registry) Register(dto DTO) error {
	if r == nil {
		return errors.New("metadata: registry is nil")
	}
	id := TypeID(strings.TrimSpace(string(dto.ID)))
	if id == "" {
		return ErrEmptyTypeID
	}

	seen := make(map[string]struct{}, len(dto.Fields))
	fields := make([]FieldDescriptor, 0, len(dto.Fields))
	for _, field := range dto.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("metadata: dto %q declares a field without a name", id)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w %q on dto %q", ErrDuplicateField, name, id)
		}
		seen[name] = struct{}{}
		field.Name = name
		fields = append(fields, field)
	}
	dto.ID = id
	dto.Fields = fields

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dtos == nil {
		r.dtos = make(map[TypeID]DTO)
	}
	if _, exists := r.dtos[id]; !exists {
		r.order = append(r.order, id)
	}
	r.dtos[id] = dto
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(dtos ...DTO) *Registry {
	for _, dto := range dtos {
		if err := r.Register(dto); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the DTO registered under id.
func (r *Registry) Lookup(id TypeID) (DTO, bool) {
	if r == nil {
		return DTO{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	dto, ok := r.dtos[id]
	return dto, ok
}

// FieldNames implements Store.
func (r *Registry) FieldNames(id TypeID) []string {
	dto, ok := r.Lookup(id)
	if !ok {
		return []string{}
	}
	names := dto.FieldNames()
	if names == nil {
		return []string{}
	}
	return names
}

// Field implements Store.
func (r *Registry) Field(id TypeID, name string) (FieldDescriptor, bool) {
	dto, ok := r.Lookup(id)
	if !ok {
		return FieldDescriptor{}, false
	}
	return dto.Field(name)
}

// Has reports whether id is registered.
func (r *Registry) Has(id TypeID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// IDs returns the registered identifiers in first-registration order.
func (r *Registry) IDs() []TypeID {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]TypeID(nil), r.order...)
}

// Len returns the number of registered DTOs.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dtos)
}
