package metadata

// FieldOption mutates a FieldDescriptor during declaration.
type FieldOption func(*FieldDescriptor)

// Example sets the literal example value for a field.
func Example(value any) FieldOption {
	return func(f *FieldDescriptor) {
		f.Example = value
		f.HasExample = true
	}
}

// Description sets the human-readable description for a field.
func Description(text string) FieldOption {
	return func(f *FieldDescriptor) {
		f.Description = text
	}
}

// Array marks the field as a sequence of its resolved type.
func Array() FieldOption {
	return func(f *FieldDescriptor) {
		f.IsArray = true
	}
}

// Builder declares a DTO field by field, preserving declaration order.
//
//	user := metadata.Define("User").
//		String("name", metadata.Example("Alice")).
//		Number("age", metadata.Description("user age")).
//		DTO()
type Builder struct {
	dto DTO
}

// Define starts a DTO declaration.
func Define(id TypeID) *Builder {
	return &Builder{dto: DTO{ID: id}}
}

// Describe sets the DTO level description.
func (b *Builder) Describe(text string) *Builder {
	b.dto.Description = text
	return b
}

// Field appends a field with an explicit type ref.
func (b *Builder) Field(name string, ref TypeRef, options ...FieldOption) *Builder {
	field := FieldDescriptor{Name: name, Type: ref}
	for _, opt := range options {
		if opt != nil {
			opt(&field)
		}
	}
	b.dto.Fields = append(b.dto.Fields, field)
	return b
}

// String appends a string primitive field.
func (b *Builder) String(name string, options ...FieldOption) *Builder {
	return b.Field(name, PrimitiveType(PrimitiveString), options...)
}

// Number appends a number primitive field.
func (b *Builder) Number(name string, options ...FieldOption) *Builder {
	return b.Field(name, PrimitiveType(PrimitiveNumber), options...)
}

// Integer appends an integer primitive field.
func (b *Builder) Integer(name string, options ...FieldOption) *Builder {
	return b.Field(name, PrimitiveType(PrimitiveInteger), options...)
}

// Boolean appends a boolean primitive field.
func (b *Builder) Boolean(name string, options ...FieldOption) *Builder {
	return b.Field(name, PrimitiveType(PrimitiveBoolean), options...)
}

// Generic appends a field substituted with the caller-supplied generic DTO.
func (b *Builder) Generic(name string, options ...FieldOption) *Builder {
	return b.Field(name, GenericType(), options...)
}

// Nested appends a field referencing another DTO directly.
func (b *Builder) Nested(name string, id TypeID, options ...FieldOption) *Builder {
	return b.Field(name, Ref(id), options...)
}

// Deferred appends a field whose type is produced by fn on first use.
func (b *Builder) Deferred(name string, fn func() TypeRef, options ...FieldOption) *Builder {
	return b.Field(name, Lazy(fn), options...)
}

// DTO returns the accumulated declaration.
func (b *Builder) DTO() DTO {
	out := b.dto
	out.Fields = append([]FieldDescriptor(nil), b.dto.Fields...)
	return out
}
