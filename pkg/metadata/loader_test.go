package metadata

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"users.yaml": {Data: []byte(`
dtos:
  User:
    description: A user
    fields:
      - {name: name, type: string, example: Alice}
      - {name: nickname, type: string, example: null}
      - {name: meta, type: string, example: {a: [1, 2]}}
      - {name: posts, type: "lazy:[Post]"}
      - {name: data, type: generic}
`)},
		"nested/posts.json": {Data: []byte(`{"dtos": {"Post": {"fields": [{"name": "title", "type": "string", "array": true}]}}}`)},
		"README.md":         {Data: []byte("ignored")},
	}

	reg, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]TypeID{"Post", "User"}, reg.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}

	user, _ := reg.Lookup("User")
	if user.Description != "A user" {
		t.Fatalf("unexpected description %q", user.Description)
	}
	nick, _ := user.Field("nickname")
	if !nick.HasExample || nick.Example != nil {
		t.Fatalf("expected explicit nil example, got %+v", nick)
	}
	meta, _ := user.Field("meta")
	if diff := cmp.Diff(map[string]any{"a": []any{1, 2}}, meta.Example); diff != "" {
		t.Fatalf("unexpected meta example (-want +got):\n%s", diff)
	}
	posts, _ := user.Field("posts")
	if resolved := posts.Type.Resolve(); !resolved.IsList() || resolved.Target() != "Post" {
		t.Fatalf("unexpected posts ref %s", resolved)
	}
	data, _ := user.Field("data")
	if data.Type.Kind() != KindGeneric {
		t.Fatalf("expected generic marker, got %s", data.Type.Kind())
	}
	title, _ := reg.Field("Post", "title")
	if !title.IsArray || title.Type.Primitive() != PrimitiveString {
		t.Fatalf("unexpected title field %+v", title)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{
			name: "duplicate across files",
			fsys: fstest.MapFS{
				"a.yaml": {Data: []byte("dtos:\n  User: {fields: []}\n")},
				"b.yaml": {Data: []byte("dtos:\n  User: {fields: []}\n")},
			},
			want: `duplicate dto "User"`,
		},
		{
			name: "unknown reference",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("dtos:\n  User: {fields: [{name: pet, type: Pet}]}\n")}},
			want: `unknown type "Pet"`,
		},
		{
			name: "unnamed field",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("dtos:\n  User: {fields: [{type: string}]}\n")}},
			want: "name is required",
		},
		{
			name: "empty file",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("  ")}},
			want: "is empty",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFS(tc.fsys)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseTypeRef(t *testing.T) {
	cases := []struct {
		raw    string
		kind   Kind
		target TypeID
	}{
		{raw: "string", kind: KindPrimitive},
		{raw: "boolean", kind: KindPrimitive},
		{raw: "generic", kind: KindGeneric},
		{raw: "User", kind: KindDirect, target: "User"},
		{raw: "lazy:User", kind: KindDeferred, target: "User"},
		{raw: "lazy:[ Tag ]", kind: KindDeferred, target: "Tag"},
		{raw: "", kind: KindUnknown},
	}
	for _, tc := range cases {
		ref, target := ParseTypeRef(tc.raw)
		if ref.Kind() != tc.kind || target != tc.target {
			t.Fatalf("%q: got (%s, %q), want (%s, %q)", tc.raw, ref.Kind(), target, tc.kind, tc.target)
		}
	}
}

func TestCheckSpecKeys(t *testing.T) {
	valid := map[string]DTOSpec{
		"User": {Fields: []FieldSpec{
			{"name": "tags", "type": "string", "array": true, "example": "a", "description": "labels"},
		}},
	}
	if err := CheckSpecKeys(valid); err != nil {
		t.Fatalf("expected known keys to pass, got %v", err)
	}

	typo := FieldSpec{"name": "age", "type": "integer", "exmple": 3, "descripton": "x"}
	if diff := cmp.Diff([]string{"descripton", "exmple"}, typo.UnknownKeys()); diff != "" {
		t.Fatalf("unexpected unknown keys (-want +got):\n%s", diff)
	}

	err := CheckSpecKeys(map[string]DTOSpec{
		"Zed":  {Fields: []FieldSpec{typo}},
		"User": {Fields: []FieldSpec{{"name": "ok"}, {"name": "n", "exmple": 1}}},
	})
	if err == nil || !strings.Contains(err.Error(), `dto "User" field 1: unknown key "exmple"`) {
		t.Fatalf("expected first unknown key in name order, got %v", err)
	}
}
