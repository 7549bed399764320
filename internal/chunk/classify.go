package chunk

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/lua-chunks/internal/lang"
)

// Kind is the classification of a syntax node.
type Kind int

const (
	NotAFunction Kind = iota
	PlainFunction
	LocalFunction
)

func (k Kind) String() string {
	switch k {
	case PlainFunction:
		return "function"
	case LocalFunction:
		return "local_function"
	default:
		return "none"
	}
}

// Classify reports which declaration shape node is. Plain declarations are
// only recognized when their name is a simple identifier or one of the
// language's qualified-name shapes; anything else is NotAFunction.
func Classify(spec *lang.LanguageSpec, node *tree_sitter.Node) Kind {
	if node == nil {
		return NotAFunction
	}
	kind := node.Kind()
	if spec.IsLocalFunction(kind) {
		return LocalFunction
	}
	if !spec.IsFunction(kind) {
		return NotAFunction
	}
	if hasLocalKeyword(spec, node) {
		return LocalFunction
	}

	name := node.ChildByFieldName(spec.NameField)
	if name == nil {
		return NotAFunction
	}
	if spec.IsIdentifier(name.Kind()) {
		return PlainFunction
	}
	if _, ok := spec.QualifiedNameFor(name.Kind()); ok {
		return PlainFunction
	}
	return NotAFunction
}

// hasLocalKeyword reports whether the declaration's first token is the
// language's local keyword.
func hasLocalKeyword(spec *lang.LanguageSpec, node *tree_sitter.Node) bool {
	if spec.LocalKeyword == "" || node.ChildCount() == 0 {
		return false
	}
	first := node.Child(0)
	return first != nil && first.Kind() == spec.LocalKeyword
}
