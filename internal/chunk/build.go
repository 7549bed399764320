package chunk

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/lua-chunks/internal/lang"
	"github.com/DeusData/lua-chunks/internal/parser"
)

// Build assembles the chunk for a declaration node found in path. It fails
// only when the node is not a declaration or its name cannot be resolved.
func Build(spec *lang.LanguageSpec, node *tree_sitter.Node, source []byte, path string) (Chunk, error) {
	kind := Classify(spec, node)
	if kind == NotAFunction {
		return Chunk{}, ErrNotAFunction
	}

	name, method, err := ResolveName(spec, node, source)
	if err != nil {
		return Chunk{}, err
	}

	start := node.StartPosition()
	end := node.EndPosition()
	startLine := parser.StartLine(node)
	endLine := parser.EndLine(node)

	return Chunk{
		name:      name,
		content:   parser.NodeText(node, source),
		startLine: startLine,
		endLine:   endLine,
		metadata: map[string]any{
			MetaFilePath:    path,
			MetaStartLine:   startLine,
			MetaEndLine:     endLine,
			MetaStartColumn: int(start.Column),
			MetaEndColumn:   int(end.Column),
			MetaKind:        kind.String(),
			MetaMethod:      method,
			MetaLanguage:    string(spec.Language),
		},
		parameters: ResolveParameters(spec, node, source),
		local:      kind == LocalFunction,
		comments:   CollectComments(spec, node, source),
	}, nil
}
