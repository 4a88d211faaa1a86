package metadata

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const lazyPrefix = "lazy:"

// FieldSpec is the declarative form of a field inside a catalog file. Fields
// are kept as raw maps so an explicit `example: null` can be told apart from
// a missing example.
type FieldSpec map[string]any

var fieldSpecKeys = map[string]struct{}{
	"name":        {},
	"type":        {},
	"array":       {},
	"example":     {},
	"description": {},
}

// UnknownKeys returns the keys of s outside the field grammar, sorted.
func (s FieldSpec) UnknownKeys() []string {
	var out []string
	for key := range s {
		if _, ok := fieldSpecKeys[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// CheckSpecKeys rejects field declarations carrying keys outside the field
// grammar. DTOs are checked in name order.
func CheckSpecKeys(specs map[string]DTOSpec) error {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for idx, field := range specs[name].Fields {
			if unknown := field.UnknownKeys(); len(unknown) > 0 {
				return fmt.Errorf("metadata: dto %q field %d: unknown key %q", name, idx, unknown[0])
			}
		}
	}
	return nil
}

// DTOSpec is the declarative form of a DTO inside a catalog file.
type DTOSpec struct {
	Description string      `json:"description" yaml:"description"`
	Fields      []FieldSpec `json:"fields" yaml:"fields"`
}

type dtoFile struct {
	DTOs map[string]DTOSpec `json:"dtos" yaml:"dtos"`
}

// LoadFS walks fsys and registers every DTO declared in JSON/YAML catalog
// files. References are checked by name once every file has been read, so DTOs
// may reference each other regardless of file or declaration order.
func LoadFS(fsys fs.FS) (*Registry, error) {
	reg := &Registry{dtos: make(map[TypeID]DTO)}
	if fsys == nil {
		return reg, nil
	}

	specs := make(map[string]DTOSpec)
	origins := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("metadata: read %s: %w", path, err)
		}
		var doc dtoFile
		if err := decode(data, path, &doc); err != nil {
			return err
		}
		for name, spec := range doc.DTOs {
			if prev, exists := origins[name]; exists {
				return fmt.Errorf("metadata: duplicate dto %q (files %s and %s)", name, prev, path)
			}
			origins[name] = path
			specs[name] = spec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := RegisterSpecs(reg, specs); err != nil {
		return nil, err
	}
	return reg, nil
}

// RegisterSpecs converts declarative DTO specs and registers them on reg in
// sorted name order. Every referenced type must be declared in specs or
// already registered on reg.
func RegisterSpecs(reg *Registry, specs map[string]DTOSpec) error {
	if reg == nil {
		return fmt.Errorf("metadata: registry is nil")
	}
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	known := func(id TypeID) bool {
		if _, ok := specs[string(id)]; ok {
			return true
		}
		return reg.Has(id)
	}

	for _, name := range names {
		spec := specs[name]
		dto := DTO{ID: TypeID(name), Description: spec.Description}
		for idx, raw := range spec.Fields {
			field, target, err := fieldFromSpec(raw)
			if err != nil {
				return fmt.Errorf("metadata: dto %q field %d: %w", name, idx, err)
			}
			if target != "" && !known(target) {
				return fmt.Errorf("metadata: dto %q field %q references unknown type %q", name, field.Name, target)
			}
			dto.Fields = append(dto.Fields, field)
		}
		if err := reg.Register(dto); err != nil {
			return err
		}
	}
	return nil
}

// ParseTypeRef parses the catalog type grammar:
//
//	string | number | integer | boolean | generic | <Name> | lazy:<Name> | lazy:[<Name>]
//
// Lazy refs are returned as deferred resolvers; the referenced name is
// reported so callers can validate it.
func ParseTypeRef(raw string) (TypeRef, TypeID) {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return TypeRef{}, ""
	case value == "generic":
		return GenericType(), ""
	case Primitive(value).Valid():
		return PrimitiveType(Primitive(value)), ""
	case strings.HasPrefix(value, lazyPrefix):
		inner := strings.TrimSpace(strings.TrimPrefix(value, lazyPrefix))
		if strings.HasPrefix(inner, "[") && strings.HasSuffix(inner, "]") {
			id := TypeID(strings.TrimSpace(inner[1 : len(inner)-1]))
			return Lazy(func() TypeRef { return ListOf(id) }), id
		}
		id := TypeID(inner)
		return Lazy(func() TypeRef { return Ref(id) }), id
	default:
		return Ref(TypeID(value)), TypeID(value)
	}
}

func fieldFromSpec(raw FieldSpec) (FieldDescriptor, TypeID, error) {
	name, _ := raw["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return FieldDescriptor{}, "", fmt.Errorf("name is required")
	}

	typeName, _ := raw["type"].(string)
	ref, target := ParseTypeRef(typeName)

	field := FieldDescriptor{Name: name, Type: ref}
	if isArray, ok := raw["array"].(bool); ok {
		field.IsArray = isArray
	}
	if desc, ok := raw["description"].(string); ok {
		field.Description = desc
	}
	if example, ok := raw["example"]; ok {
		field.Example = normalizeValue(example)
		field.HasExample = true
	}
	return field, target, nil
}

// normalizeValue converts yaml.v3 decoded trees into JSON-friendly values.
func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}

func decode(data []byte, source string, target any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("metadata: file %s is empty", source)
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("metadata: parse %s: %w", source, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("metadata: parse %s: %w", source, err)
	}
	return nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
