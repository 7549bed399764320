package chunk

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/lua-chunks/internal/lang"
	"github.com/DeusData/lua-chunks/internal/parser"
)

// Vararg is the parameter entry recorded for a variadic marker.
const Vararg = "..."

// ResolveName returns the declared name of a classified declaration.
// Qualified names are dot-joined; method reports the colon (self) form.
// ErrUnresolvableName is returned when any required part is missing.
func ResolveName(spec *lang.LanguageSpec, node *tree_sitter.Node, source []byte) (name string, method bool, err error) {
	nameNode := node.ChildByFieldName(spec.NameField)
	if nameNode == nil {
		return "", false, ErrUnresolvableName
	}

	if spec.IsIdentifier(nameNode.Kind()) {
		name = identText(nameNode, source)
		if name == "" {
			return "", false, ErrUnresolvableName
		}
		return name, false, nil
	}

	// Local declarations only bind plain identifiers.
	if Classify(spec, node) == LocalFunction {
		return "", false, ErrUnresolvableName
	}

	q, ok := spec.QualifiedNameFor(nameNode.Kind())
	if !ok {
		return "", false, ErrUnresolvableName
	}
	name = qualifiedText(spec, nameNode, source)
	if name == "" {
		return "", false, ErrUnresolvableName
	}
	return name, q.Method, nil
}

// qualifiedText dot-joins a qualified name, descending through nested
// table parts so `a.b.c` is rebuilt without source whitespace. It returns
// "" when a table or member part is absent.
func qualifiedText(spec *lang.LanguageSpec, node *tree_sitter.Node, source []byte) string {
	q, ok := spec.QualifiedNameFor(node.Kind())
	if !ok {
		return identText(node, source)
	}
	table := node.ChildByFieldName(q.TableField)
	member := node.ChildByFieldName(q.MemberField)
	if table == nil || member == nil {
		return ""
	}
	tableText := qualifiedText(spec, table, source)
	memberText := identText(member, source)
	if tableText == "" || memberText == "" {
		return ""
	}
	return tableText + "." + memberText
}

// ResolveParameters returns the declaration's parameters in source order.
// Identifiers contribute their text, a variadic marker contributes "..."
// and ends the list; other node kinds are ignored. A missing parameter list
// yields an empty slice.
func ResolveParameters(spec *lang.LanguageSpec, node *tree_sitter.Node, source []byte) []string {
	params := []string{}
	list := node.ChildByFieldName(spec.ParametersField)
	if list == nil {
		return params
	}
	for i := uint(0); i < list.ChildCount(); i++ {
		child := list.Child(i)
		if child == nil || child.IsMissing() {
			continue
		}
		switch {
		case spec.IsVararg(child.Kind()):
			return append(params, Vararg)
		case spec.IsParameter(child.Kind()):
			params = append(params, parser.NodeText(child, source))
		}
	}
	return params
}

// identText returns a node's text, or "" for nodes the parser inserted to
// recover from an error.
func identText(node *tree_sitter.Node, source []byte) string {
	if node.IsMissing() {
		return ""
	}
	return parser.NodeText(node, source)
}
