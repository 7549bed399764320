package chunk

import (
	"slices"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/lua-chunks/internal/lang"
	"github.com/DeusData/lua-chunks/internal/parser"
)

// CollectComments returns the run of comment siblings directly above node,
// top to bottom. Adjacency is structural: blank lines do not break the run,
// the first non-comment sibling does.
func CollectComments(spec *lang.LanguageSpec, node *tree_sitter.Node, source []byte) []string {
	comments := []string{}
	for prev := node.PrevSibling(); prev != nil && spec.IsComment(prev.Kind()); prev = prev.PrevSibling() {
		comments = append(comments, parser.NodeText(prev, source))
	}
	// Collected bottom-up.
	slices.Reverse(comments)
	return comments
}
