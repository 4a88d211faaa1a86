package metadata

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := MustNewRegistry(
		Define(" User ").String("name", Example("Alice")).Number("age").DTO(),
		Define("Post").String("title").DTO(),
	)

	if diff := cmp.Diff([]TypeID{"User", "Post"}, reg.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "age"}, reg.FieldNames("User")); diff != "" {
		t.Fatalf("unexpected field names (-want +got):\n%s", diff)
	}
	field, ok := reg.Field("User", "name")
	if !ok || field.Example != "Alice" || !field.HasExample {
		t.Fatalf("unexpected field %+v", field)
	}
	if _, ok := reg.Field("User", "missing"); ok {
		t.Fatal("expected missing field lookup to fail")
	}
	if names := reg.FieldNames("Ghost"); names == nil || len(names) != 0 {
		t.Fatalf("expected empty non-nil names for unknown dto, got %#v", names)
	}
}

func TestRegistry_ReplaceKeepsOrder(t *testing.T) {
	reg := MustNewRegistry(Define("A").String("x").DTO(), Define("B").DTO())
	reg.MustRegister(Define("A").String("y").DTO())

	if diff := cmp.Diff([]TypeID{"A", "B"}, reg.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"y"}, reg.FieldNames("A")); diff != "" {
		t.Fatalf("expected replacement (-want +got):\n%s", diff)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg, _ := NewRegistry()
	if err := reg.Register(DTO{ID: "  "}); !errors.Is(err, ErrEmptyTypeID) {
		t.Fatalf("expected ErrEmptyTypeID, got %v", err)
	}
	dup := DTO{ID: "A", Fields: []FieldDescriptor{{Name: "x"}, {Name: " x"}}}
	if err := reg.Register(dup); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
	if err := reg.Register(DTO{ID: "A", Fields: []FieldDescriptor{{Name: ""}}}); err == nil {
		t.Fatal("expected error for unnamed field")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected failed registrations to leave registry empty, got %d", reg.Len())
	}

	var nilReg *Registry
	if nilReg.Has("A") || nilReg.Len() != 0 {
		t.Fatal("expected nil registry to be empty")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg, _ := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		id := TypeID(string(rune('A' + i)))
		go func() {
			defer wg.Done()
			reg.MustRegister(Define(id).String("f").DTO())
		}()
		go func() {
			defer wg.Done()
			_ = reg.FieldNames(id)
		}()
	}
	wg.Wait()
	if reg.Len() != 8 {
		t.Fatalf("expected 8 dtos, got %d", reg.Len())
	}
}

func TestFieldDescriptor_ExampleValue(t *testing.T) {
	cases := []struct {
		name  string
		field FieldDescriptor
		want  any
		ok    bool
	}{
		{name: "example", field: FieldDescriptor{Example: 3, HasExample: true, Description: "d"}, want: 3, ok: true},
		{name: "explicit nil", field: FieldDescriptor{HasExample: true}, want: nil, ok: true},
		{name: "description", field: FieldDescriptor{Description: "d"}, want: "d", ok: true},
		{name: "nothing", field: FieldDescriptor{}, want: nil, ok: false},
	}
	for _, tc := range cases {
		got, ok := tc.field.ExampleValue()
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got (%v, %v), want (%v, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTypeRef_Kinds(t *testing.T) {
	calls := 0
	lazy := Lazy(func() TypeRef {
		calls++
		return ListOf("Tag")
	})
	if lazy.Kind() != KindDeferred {
		t.Fatalf("expected deferred, got %s", lazy.Kind())
	}
	for i := 0; i < 3; i++ {
		resolved := lazy.Resolve()
		if resolved.Kind() != KindDirect || !resolved.IsList() || resolved.Target() != "Tag" {
			t.Fatalf("unexpected resolution %s", resolved)
		}
	}
	if calls != 1 {
		t.Fatalf("expected resolver to run once, ran %d times", calls)
	}
	if Lazy(nil).Kind() == KindDeferred {
		t.Fatal("expected nil resolver to produce an unclassified ref")
	}
	if PrimitiveType(PrimitiveInteger).Primitive() != PrimitiveInteger {
		t.Fatal("expected integer primitive")
	}
	if GenericType().Kind() != KindGeneric {
		t.Fatal("expected generic kind")
	}
}
