package schema

import (
	"sort"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-respdoc/pkg/metadata"
)

const componentsPrefix = "#/components/schemas/"

// RefPath returns the component reference path for id.
func RefPath(id metadata.TypeID) string {
	return componentsPrefix + string(id)
}

// Components collects the extra models published under components/schemas.
// A DTO must be registered before any schema reference to it is emitted.
type Components struct {
	mu      sync.RWMutex
	schemas openapi3.Schemas
	order   []metadata.TypeID
}

// NewComponents returns an empty component registry.
func NewComponents() *Components {
	return &Components{schemas: make(openapi3.Schemas)}
}

// Register converts the DTOs identified by ids into component schemas.
// Referenced DTOs are registered transitively so every emitted $ref resolves.
// DTOs missing from store are published as empty objects.
func (c *Components) Register(store metadata.Store, ids ...metadata.TypeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.schemas == nil {
		c.schemas = make(openapi3.Schemas)
	}
	for _, id := range ids {
		c.register(store, id)
	}
}

func (c *Components) register(store metadata.Store, id metadata.TypeID) {
	if id == "" {
		return
	}
	if _, exists := c.schemas[string(id)]; exists {
		return
	}

	value := openapi3.NewObjectSchema()
	// Reserve the slot before walking fields so self references terminate.
	c.schemas[string(id)] = openapi3.NewSchemaRef("", value)
	c.order = append(c.order, id)

	dto, ok := store.Lookup(id)
	if !ok {
		return
	}
	value.Description = dto.Description
	for _, field := range dto.Fields {
		prop, targets := fieldSchema(field)
		if prop == nil {
			continue
		}
		value.Properties[field.Name] = prop
		for _, target := range targets {
			c.register(store, target)
		}
	}
}

// Has reports whether id has been registered.
func (c *Components) Has(id metadata.TypeID) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.schemas[string(id)]
	return ok
}

// IDs returns registered DTOs in registration order.
func (c *Components) IDs() []metadata.TypeID {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]metadata.TypeID(nil), c.order...)
}

// Schemas returns a copy of the registered component schemas.
func (c *Components) Schemas() openapi3.Schemas {
	out := make(openapi3.Schemas)
	if c == nil {
		return out
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, ref := range c.schemas {
		out[name] = ref
	}
	return out
}

// Apply copies the registered schemas into components, keeping schemas the
// caller declared under the same name.
func (c *Components) Apply(components *openapi3.Components) {
	if components == nil {
		return
	}
	if components.Schemas == nil {
		components.Schemas = make(openapi3.Schemas)
	}
	schemas := c.Schemas()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, exists := components.Schemas[name]; exists {
			continue
		}
		components.Schemas[name] = schemas[name]
	}
}

func fieldSchema(field metadata.FieldDescriptor) (*openapi3.SchemaRef, []metadata.TypeID) {
	ref := resolveRef(field.Type)

	var (
		item    *openapi3.SchemaRef
		targets []metadata.TypeID
		asArray = field.IsArray
	)
	switch ref.Kind() {
	case metadata.KindPrimitive:
		value := primitiveSchema(ref.Primitive())
		target := value
		if asArray {
			target = openapi3.NewArraySchema()
			target.Items = openapi3.NewSchemaRef("", value)
		}
		target.Description = field.Description
		if field.HasExample {
			target.Example = field.Example
		}
		return openapi3.NewSchemaRef("", target), nil
	case metadata.KindGeneric:
		value := openapi3.NewObjectSchema()
		value.Description = field.Description
		item = openapi3.NewSchemaRef("", value)
	case metadata.KindDirect:
		item = openapi3.NewSchemaRef(RefPath(ref.Target()), nil)
		targets = append(targets, ref.Target())
		asArray = asArray || ref.IsList()
	default:
		return nil, nil
	}

	if !asArray {
		return item, targets
	}
	arr := openapi3.NewArraySchema()
	arr.Items = item
	arr.Description = field.Description
	return openapi3.NewSchemaRef("", arr), targets
}

// maxResolveHops bounds chains of deferred refs returning deferred refs.
const maxResolveHops = 32

func resolveRef(ref metadata.TypeRef) metadata.TypeRef {
	for hops := 0; ref.Kind() == metadata.KindDeferred && hops < maxResolveHops; hops++ {
		ref = ref.Resolve()
	}
	return ref
}

func primitiveSchema(p metadata.Primitive) *openapi3.Schema {
	switch p {
	case metadata.PrimitiveNumber:
		return openapi3.NewFloat64Schema()
	case metadata.PrimitiveInteger:
		return openapi3.NewIntegerSchema()
	case metadata.PrimitiveBoolean:
		return openapi3.NewBoolSchema()
	default:
		return openapi3.NewStringSchema()
	}
}
