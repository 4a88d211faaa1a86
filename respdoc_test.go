package respdoc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-respdoc"
	"github.com/goliatone/go-respdoc/pkg/catalog"
	"github.com/goliatone/go-respdoc/pkg/orchestrator"
)

var shopCatalog = filepath.Join("pkg", "orchestrator", "testdata", "shop.catalog.yaml")

func TestGenerate_FromFile(t *testing.T) {
	out, err := respdoc.Generate(context.Background(), "json",
		[]catalog.Source{catalog.SourceFromFile(shopCatalog)},
		orchestrator.WithLoader(respdoc.NewLoader()),
		orchestrator.WithParser(respdoc.NewParser()),
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	doc, err := openapi3.NewLoader().LoadFromData(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if doc.Paths.Value("/users/{id}") == nil {
		t.Fatalf("expected /users/{id} in %s", out)
	}
}

func TestGenerateFromDocuments_YAML(t *testing.T) {
	raw := []byte(`
dtos:
  Ping:
    fields:
      - {name: pong, type: boolean, example: true}
operations:
  - id: ping
    method: get
    path: /ping
    responses:
      - status: 200
        options:
          - {model: Ping, title: ok, description: healthy}
`)
	doc := catalog.MustNewDocument(catalog.SourceFromFile("ping.yaml"), raw)

	out, err := respdoc.GenerateFromDocuments(context.Background(), "yml", []catalog.Document{doc})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "pong: true") {
		t.Fatalf("expected synthesized example in output:\n%s", out)
	}
}

func TestNewOrchestrator_UnknownFormat(t *testing.T) {
	if _, err := respdoc.NewOrchestrator().Renderer("html"); err == nil {
		t.Fatal("expected unknown renderer error")
	}
}
