package metadata

import (
	"fmt"
	"sync"
)

// TypeID identifies a registered DTO. It doubles as the component schema name
// when DTOs are published as extra models.
type TypeID string

// String implements fmt.Stringer.
func (id TypeID) String() string {
	return string(id)
}

// Primitive enumerates the scalar markers a field may declare.
type Primitive string

const (
	PrimitiveString  Primitive = "string"
	PrimitiveNumber  Primitive = "number"
	PrimitiveInteger Primitive = "integer"
	PrimitiveBoolean Primitive = "boolean"
)

// Valid reports whether p is one of the known primitive markers.
func (p Primitive) Valid() bool {
	switch p {
	case PrimitiveString, PrimitiveNumber, PrimitiveInteger, PrimitiveBoolean:
		return true
	}
	return false
}

// Kind classifies a TypeRef. The classification is assigned when the ref is
// constructed; KindUnknown marks a zero value that synthesis skips.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindGeneric
	KindDirect
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindGeneric:
		return "generic"
	case KindDirect:
		return "direct"
	case KindDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// TypeRef is the declared type of a field: a primitive marker, the generic
// marker, a direct DTO reference or a deferred resolver. Direct refs built
// with ListOf carry the "[T]" array shape and are expected as the result of a
// deferred resolver.
type TypeRef struct {
	kind      Kind
	primitive Primitive
	target    TypeID
	list      bool
	deferred  *deferredRef
}

type deferredRef struct {
	resolve  func() TypeRef
	once     sync.Once
	resolved TypeRef
}

// PrimitiveType returns a ref for a scalar field.
func PrimitiveType(p Primitive) TypeRef {
	return TypeRef{kind: KindPrimitive, primitive: p}
}

// GenericType returns the generic marker: the field is substituted with the
// caller-supplied generic DTO at synthesis time.
func GenericType() TypeRef {
	return TypeRef{kind: KindGeneric}
}

// Ref returns a direct reference to another DTO.
func Ref(id TypeID) TypeRef {
	return TypeRef{kind: KindDirect, target: id}
}

// ListOf returns a direct reference carrying the array shape. Returned from a
// Lazy resolver it marks the field as an array regardless of its IsArray flag.
func ListOf(id TypeID) TypeRef {
	return TypeRef{kind: KindDirect, target: id, list: true}
}

// Lazy defers resolution to fn, which is invoked at most once. It breaks
// declaration-order dependencies between DTOs that reference each other.
func Lazy(fn func() TypeRef) TypeRef {
	if fn == nil {
		return TypeRef{}
	}
	return TypeRef{kind: KindDeferred, deferred: &deferredRef{resolve: fn}}
}

// Kind returns the classification of the ref.
func (r TypeRef) Kind() Kind {
	return r.kind
}

// Primitive returns the primitive marker for KindPrimitive refs.
func (r TypeRef) Primitive() Primitive {
	return r.primitive
}

// Target returns the referenced DTO for KindDirect refs.
func (r TypeRef) Target() TypeID {
	return r.target
}

// IsList reports whether the ref carries the "[T]" array shape.
func (r TypeRef) IsList() bool {
	return r.list
}

// Resolve invokes the deferred resolver once and returns its memoised result.
// Non-deferred refs return themselves.
func (r TypeRef) Resolve() TypeRef {
	if r.kind != KindDeferred || r.deferred == nil {
		return r
	}
	d := r.deferred
	d.once.Do(func() {
		d.resolved = d.resolve()
	})
	return d.resolved
}

func (r TypeRef) String() string {
	switch r.kind {
	case KindPrimitive:
		return string(r.primitive)
	case KindGeneric:
		return "generic"
	case KindDirect:
		if r.list {
			return fmt.Sprintf("[%s]", r.target)
		}
		return string(r.target)
	case KindDeferred:
		return "lazy"
	default:
		return "unknown"
	}
}

// FieldDescriptor describes one field of a DTO.
type FieldDescriptor struct {
	Name        string
	Type        TypeRef
	IsArray     bool
	Example     any
	HasExample  bool
	Description string
}

// ExampleValue returns the literal example when one was declared, falling back
// to the description. It reports false when the field carries neither.
func (f FieldDescriptor) ExampleValue() (any, bool) {
	if f.HasExample {
		return f.Example, true
	}
	if f.Description != "" {
		return f.Description, true
	}
	return nil, false
}

// DTO is a data-transfer-object type with its ordered field list.
type DTO struct {
	ID          TypeID
	Description string
	Fields      []FieldDescriptor
}

// Field returns the named descriptor.
func (d DTO) Field(name string) (FieldDescriptor, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// FieldNames returns the declared field names in declaration order.
func (d DTO) FieldNames() []string {
	if len(d.Fields) == 0 {
		return nil
	}
	names := make([]string, len(d.Fields))
	for i, field := range d.Fields {
		names[i] = field.Name
	}
	return names
}

// Store is the read side of the metadata catalog consumed by synthesis and
// schema assembly.
type Store interface {
	// FieldNames returns the declared field names of id in declaration order,
	// or an empty slice when id is unregistered.
	FieldNames(id TypeID) []string
	// Field returns the descriptor for a field listed by FieldNames.
	Field(id TypeID, name string) (FieldDescriptor, bool)
	// Lookup returns the full DTO declaration.
	Lookup(id TypeID) (DTO, bool)
}
