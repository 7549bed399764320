package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/DeusData/lua-chunks/internal/chunk"
	"github.com/DeusData/lua-chunks/internal/lang"
	"github.com/DeusData/lua-chunks/internal/parser"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

const sample = `-- module table
local M = {}

--- Adds two numbers.
function M.add(a, b, ...)
  return a + b
end

function M:method() end

local function helper(x) return x end
`

func printAST(spec *lang.LanguageSpec, node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	prefix := strings.Repeat("  ", indent)
	parentKind := "nil"
	if node.Parent() != nil {
		parentKind = node.Parent().Kind()
	}
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	mark := ""
	if k := chunk.Classify(spec, node); k != chunk.NotAFunction {
		mark = " [" + k.String() + "]"
	}
	fmt.Printf("%s%s%s (parent=%s) %d-%d %q\n", prefix, node.Kind(), mark, parentKind,
		parser.StartLine(node), parser.EndLine(node), text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printAST(spec, node.Child(i), source, indent+1)
	}
}

func main() {
	source := []byte(sample)
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		source = data
	}

	tree, err := parser.Parse(lang.Lua, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer tree.Close()

	printAST(lang.ForLanguage(lang.Lua), tree.RootNode(), source, 0)
}
