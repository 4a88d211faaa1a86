package response

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-respdoc/pkg/example"
	"github.com/goliatone/go-respdoc/pkg/metadata"
	"github.com/goliatone/go-respdoc/pkg/synth"
)

func fixtureRegistry() *metadata.Registry {
	return metadata.MustNewRegistry(
		metadata.Define("User").
			String("name", metadata.Example("Alice")).
			Number("age", metadata.Description("user age")).
			DTO(),
		metadata.Define("Post").
			String("title", metadata.Example("Hello")).
			DTO(),
		metadata.Define("Base").
			Number("code", metadata.Example(1)).
			Generic("data").
			DTO(),
		metadata.Define("Envelope").
			Number("code", metadata.Example(200)).
			String("message", metadata.Example("ok")).
			Generic("data").
			DTO(),
	)
}

func newResolver(options ...ResolverOption) *Resolver {
	return NewResolver(synth.New(fixtureRegistry()), options...)
}

func plain(t *testing.T, value any) map[string]any {
	t.Helper()
	obj, ok := value.(*example.Object)
	if !ok {
		t.Fatalf("expected *example.Object, got %T", value)
	}
	return obj.ToMap()
}

func TestResolve_Basic(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Options: []Option{
			{Model: "User", ExampleTitle: "basic", ExampleDescription: "simple case"},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got := res.Examples["basic"]
	if got.Description != "simple case" {
		t.Fatalf("unexpected description %q", got.Description)
	}
	want := map[string]any{"name": "Alice", "age": "user age"}
	if diff := cmp.Diff(want, plain(t, got.Value)); diff != "" {
		t.Fatalf("unexpected example (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]metadata.TypeID{"User"}, res.Models); diff != "" {
		t.Fatalf("unexpected models (-want +got):\n%s", diff)
	}
}

func TestResolve_Overwrite(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Options: []Option{
			{Model: "User", ExampleTitle: "older", ExampleDescription: "age set", OverwriteValue: map[string]any{"age": 30}},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := map[string]any{"name": "Alice", "age": 30}
	if diff := cmp.Diff(want, plain(t, res.Examples["older"].Value)); diff != "" {
		t.Fatalf("unexpected example (-want +got):\n%s", diff)
	}
}

func TestResolve_GenericModelWithoutEnvelope(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Options: []Option{
			{Model: "Base", Generic: "User", ExampleTitle: "wrapped"},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := map[string]any{
		"code": 1,
		"data": map[string]any{"name": "Alice", "age": "user age"},
	}
	if diff := cmp.Diff(want, plain(t, res.Examples["wrapped"].Value)); diff != "" {
		t.Fatalf("unexpected example (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]metadata.TypeID{"Base", "User"}, res.Models); diff != "" {
		t.Fatalf("unexpected models (-want +got):\n%s", diff)
	}
}

func TestResolve_Envelope(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Envelope:   "Envelope",
		Options: []Option{
			{Model: "User", ExampleTitle: "plain"},
			{Model: "User", ExampleTitle: "patched", OverwriteValue: map[string]any{"name": "Bob", "extra": true}},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	cases := map[string]map[string]any{
		"plain": {
			"code":    200,
			"message": "ok",
			"data":    map[string]any{"name": "Alice", "age": "user age"},
		},
		"patched": {
			"code":    200,
			"message": "ok",
			"data":    map[string]any{"name": "Bob", "age": "user age", "extra": true},
		},
	}
	for title, want := range cases {
		if diff := cmp.Diff(want, plain(t, res.Examples[title].Value)); diff != "" {
			t.Fatalf("%s: unexpected example (-want +got):\n%s", title, diff)
		}
	}
	if res.Envelope != "Envelope" {
		t.Fatalf("expected envelope to be recorded, got %q", res.Envelope)
	}
	if diff := cmp.Diff([]metadata.TypeID{"User", "Envelope"}, res.Types()); diff != "" {
		t.Fatalf("unexpected types (-want +got):\n%s", diff)
	}
}

func TestResolve_EnvelopeOverwriteTargetsPayloadOnly(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Envelope:   "Envelope",
		Options: []Option{
			{Model: "User", ExampleTitle: "code", OverwriteValue: map[string]any{"code": 500}},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := plain(t, res.Examples["code"].Value)
	if got["code"] != 200 {
		t.Fatalf("envelope code should be untouched, got %v", got["code"])
	}
	data := got["data"].(map[string]any)
	if data["code"] != 500 {
		t.Fatalf("override should land in payload, got %v", data)
	}
}

func TestResolve_CustomEnvelopeField(t *testing.T) {
	reg := metadata.MustNewRegistry(
		metadata.Define("User").String("name", metadata.Example("Alice")).DTO(),
		metadata.Define("Wrapper").Boolean("ok", metadata.Example(true)).Generic("result").DTO(),
	)
	resolver := NewResolver(synth.New(reg), WithEnvelopeField("result"))

	res, err := resolver.Resolve(Group{
		StatusCode: 200,
		Envelope:   "Wrapper",
		Options:    []Option{{Model: "User", ExampleTitle: "t"}},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := map[string]any{"ok": true, "result": map[string]any{"name": "Alice"}}
	if diff := cmp.Diff(want, plain(t, res.Examples["t"].Value)); diff != "" {
		t.Fatalf("unexpected example (-want +got):\n%s", diff)
	}
}

func TestResolve_DeduplicatesTypes(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Options: []Option{
			{Model: "User", ExampleTitle: "a"},
			{Model: "User", ExampleTitle: "b"},
			{Model: "Post", ExampleTitle: "c"},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]metadata.TypeID{"User", "Post"}, res.Models); diff != "" {
		t.Fatalf("unexpected models (-want +got):\n%s", diff)
	}
}

func TestResolve_GenericsAfterModels(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Options: []Option{
			{Model: "Base", Generic: "Post", ExampleTitle: "a"},
			{Model: "User", ExampleTitle: "b"},
			{Model: "Base", Generic: "User", ExampleTitle: "c"},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]metadata.TypeID{"Base", "User", "Post"}, res.Models); diff != "" {
		t.Fatalf("unexpected models (-want +got):\n%s", diff)
	}
}

func TestResolve_DuplicateTitleLastWins(t *testing.T) {
	res, err := newResolver().Resolve(Group{
		StatusCode: 200,
		Options: []Option{
			{Model: "User", ExampleTitle: "same", ExampleDescription: "first"},
			{Model: "Post", ExampleTitle: "other"},
			{Model: "Post", ExampleTitle: "same", ExampleDescription: "second"},
		},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(res.Examples))
	}
	if res.Examples["same"].Description != "second" {
		t.Fatalf("expected last write to win, got %q", res.Examples["same"].Description)
	}
	if diff := cmp.Diff([]string{"same", "other"}, res.Titles); diff != "" {
		t.Fatalf("unexpected titles (-want +got):\n%s", diff)
	}
}

func TestResolve_EmptyOptions(t *testing.T) {
	res, err := newResolver().Resolve(Group{StatusCode: 204, Envelope: "Envelope"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Examples) != 0 || len(res.Titles) != 0 || len(res.Models) != 0 {
		t.Fatalf("expected empty resolution, got %+v", res)
	}
	if res.StatusCode != 204 || res.Envelope != "Envelope" {
		t.Fatalf("unexpected resolution header %+v", res)
	}
}

func TestResolve_Errors(t *testing.T) {
	resolver := newResolver()

	if _, err := resolver.Resolve(Group{StatusCode: 200, Options: []Option{{ExampleTitle: "x"}}}); !errors.Is(err, ErrMissingModel) {
		t.Fatalf("expected ErrMissingModel, got %v", err)
	}

	cyclic := metadata.MustNewRegistry(
		metadata.Define("Loop").Deferred("self", func() metadata.TypeRef { return metadata.Ref("Loop") }).DTO(),
	)
	_, err := NewResolver(synth.New(cyclic)).Resolve(Group{
		StatusCode: 200,
		Options:    []Option{{Model: "Loop", ExampleTitle: "loop"}},
	})
	if !errors.Is(err, synth.ErrMetadataCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}
