package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-respdoc/pkg/metadata"
	"github.com/goliatone/go-respdoc/pkg/response"
	"github.com/goliatone/go-respdoc/pkg/synth"
)

func fixtureRegistry() *metadata.Registry {
	return metadata.MustNewRegistry(
		metadata.Define("User").
			Describe("A user").
			String("name", metadata.Example("Alice")).
			Number("age", metadata.Description("user age")).
			Nested("friends", "Friend", metadata.Array()).
			DTO(),
		metadata.Define("Friend").
			String("nick", metadata.Example("al")).
			Deferred("best", func() metadata.TypeRef { return metadata.Ref("User") }).
			DTO(),
		metadata.Define("Post").
			String("title", metadata.Example("Hello")).
			Deferred("tags", func() metadata.TypeRef { return metadata.ListOf("Tag") }).
			DTO(),
		metadata.Define("Tag").String("label").DTO(),
		metadata.Define("Base").
			Integer("code", metadata.Example(1)).
			Generic("data").
			DTO(),
	)
}

func refsOf(refs openapi3.SchemaRefs) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.Ref)
	}
	return out
}

func TestComponents_RegisterTransitive(t *testing.T) {
	comps := NewComponents()
	comps.Register(fixtureRegistry(), "User", "Post", "User")

	want := []metadata.TypeID{"User", "Friend", "Post", "Tag"}
	if diff := cmp.Diff(want, comps.IDs()); diff != "" {
		t.Fatalf("unexpected registration order (-want +got):\n%s", diff)
	}

	user := comps.Schemas()["User"].Value
	if user.Description != "A user" {
		t.Fatalf("unexpected description %q", user.Description)
	}
	if !user.Properties["name"].Value.Type.Is(openapi3.TypeString) {
		t.Fatalf("expected string name, got %v", user.Properties["name"].Value.Type)
	}
	if user.Properties["name"].Value.Example != "Alice" {
		t.Fatalf("expected example on name, got %v", user.Properties["name"].Value.Example)
	}
	if !user.Properties["age"].Value.Type.Is(openapi3.TypeNumber) {
		t.Fatalf("expected number age, got %v", user.Properties["age"].Value.Type)
	}
	friends := user.Properties["friends"].Value
	if !friends.Type.Is(openapi3.TypeArray) || friends.Items.Ref != RefPath("Friend") {
		t.Fatalf("expected array of Friend refs, got %+v", friends)
	}

	tags := comps.Schemas()["Post"].Value.Properties["tags"].Value
	if !tags.Type.Is(openapi3.TypeArray) || tags.Items.Ref != RefPath("Tag") {
		t.Fatalf("expected deferred list shape to become an array, got %+v", tags)
	}
}

func TestComponents_UnknownDTOIsEmptyObject(t *testing.T) {
	comps := NewComponents()
	comps.Register(fixtureRegistry(), "Ghost")

	ghost, ok := comps.Schemas()["Ghost"]
	if !ok {
		t.Fatal("expected Ghost to be registered")
	}
	if len(ghost.Value.Properties) != 0 {
		t.Fatalf("expected no properties, got %v", ghost.Value.Properties)
	}
}

func TestComponents_ApplyKeepsExisting(t *testing.T) {
	comps := NewComponents()
	comps.Register(fixtureRegistry(), "Tag")

	custom := openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	target := &openapi3.Components{Schemas: openapi3.Schemas{"Tag": custom}}
	comps.Apply(target)

	if target.Schemas["Tag"] != custom {
		t.Fatal("expected caller schema to be kept")
	}
}

func resolve(t *testing.T, group response.Group) response.Resolution {
	t.Helper()
	res, err := response.NewResolver(synth.New(fixtureRegistry())).Resolve(group)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return res
}

func TestAssemble_OneOfWithoutEnvelope(t *testing.T) {
	res := resolve(t, response.Group{
		StatusCode: 200,
		Options: []response.Option{
			{Model: "Post", ExampleTitle: "post", ExampleDescription: "a post"},
			{Model: "Base", Generic: "Tag", ExampleTitle: "tag"},
			{Model: "Post", ExampleTitle: "again"},
		},
	})
	comps := NewComponents()
	comps.Register(fixtureRegistry(), res.Types()...)

	media, err := Assemble(res, comps)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	want := []string{RefPath("Post"), RefPath("Base"), RefPath("Tag")}
	if diff := cmp.Diff(want, refsOf(media.Schema.Value.OneOf)); diff != "" {
		t.Fatalf("unexpected oneOf (-want +got):\n%s", diff)
	}
	if media.Schema.Value.AdditionalProperties.Schema != nil {
		t.Fatal("expected no additionalProperties without envelope")
	}
	if len(media.Examples) != 3 {
		t.Fatalf("expected 3 examples, got %d", len(media.Examples))
	}
	if media.Examples["post"].Value.Description != "a post" {
		t.Fatalf("unexpected description %q", media.Examples["post"].Value.Description)
	}
}

func TestAssemble_Envelope(t *testing.T) {
	res := resolve(t, response.Group{
		StatusCode: 201,
		Envelope:   "Base",
		Options: []response.Option{
			{Model: "Tag", ExampleTitle: "wrapped", ExampleDescription: "wrapped tag", OverwriteValue: map[string]any{"label": "go"}},
		},
	})
	comps := NewComponents()
	comps.Register(fixtureRegistry(), res.Types()...)

	media, err := Assemble(res, comps)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if diff := cmp.Diff([]string{RefPath("Tag")}, refsOf(media.Schema.Value.OneOf)); diff != "" {
		t.Fatalf("unexpected oneOf (-want +got):\n%s", diff)
	}
	if got := media.Schema.Value.AdditionalProperties.Schema; got == nil || got.Ref != RefPath("Base") {
		t.Fatalf("expected envelope additionalProperties, got %+v", got)
	}

	raw, err := json.Marshal(media.Examples["wrapped"].Value.Value)
	if err != nil {
		t.Fatalf("marshal example: %v", err)
	}
	if got := string(raw); got != `{"code":1,"data":{"label":"go"}}` {
		t.Fatalf("unexpected example json: %s", got)
	}
}

func TestAssemble_RequiresRegistration(t *testing.T) {
	res := resolve(t, response.Group{
		StatusCode: 200,
		Envelope:   "Base",
		Options:    []response.Option{{Model: "Post", ExampleTitle: "p"}},
	})
	comps := NewComponents()
	comps.Register(fixtureRegistry(), "Post")

	_, err := Assemble(res, comps)
	if !errors.Is(err, ErrUnregisteredModel) {
		t.Fatalf("expected ErrUnregisteredModel, got %v", err)
	}
}

func TestResponseFor(t *testing.T) {
	resp := ResponseFor(404, "", openapi3.NewMediaType())
	if resp.Description == nil || *resp.Description != "Not Found" {
		t.Fatalf("expected status text description, got %v", resp.Description)
	}
	if _, ok := resp.Content[MediaTypeJSON]; !ok {
		t.Fatal("expected json content")
	}

	custom := ResponseFor(299, "", nil)
	if *custom.Description != "299" {
		t.Fatalf("expected numeric fallback, got %q", *custom.Description)
	}
}
