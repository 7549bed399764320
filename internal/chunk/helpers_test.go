package chunk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/lua-chunks/internal/lang"
	"github.com/DeusData/lua-chunks/internal/parser"
)

func luaSpec(t *testing.T) *lang.LanguageSpec {
	t.Helper()
	spec := lang.ForLanguage(lang.Lua)
	if spec == nil {
		t.Fatal("lua spec not registered")
	}
	return spec
}

func parseLua(t *testing.T, code string) (*tree_sitter.Tree, []byte) {
	t.Helper()
	source := []byte(code)
	tree, err := parser.Parse(lang.Lua, source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree, source
}

// declarations returns every function declaration node in source order,
// regardless of whether it classifies as a function.
func declarations(t *testing.T, tree *tree_sitter.Tree) []*tree_sitter.Node {
	t.Helper()
	spec := luaSpec(t)
	var nodes []*tree_sitter.Node
	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if spec.IsFunction(n.Kind()) || spec.IsLocalFunction(n.Kind()) {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

func firstDeclaration(t *testing.T, code string) (*tree_sitter.Node, []byte) {
	t.Helper()
	tree, source := parseLua(t, code)
	nodes := declarations(t, tree)
	if len(nodes) == 0 {
		t.Fatalf("no declaration in %q", code)
	}
	return nodes[0], source
}

func newExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func extractString(t *testing.T, code string) []Chunk {
	t.Helper()
	e := newExtractor(t, Options{})
	chunks, err := e.ExtractSource(context.Background(), "test.lua", []byte(code))
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}
	return chunks
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func names(chunks []Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.FunctionName())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
