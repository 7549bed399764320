package chunk

import (
	"errors"
	"testing"

	"github.com/DeusData/lua-chunks/internal/lang"
)

func TestResolveName(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantName   string
		wantMethod bool
	}{
		{"identifier", "function greet() end\n", "greet", false},
		{"dotted", "function M.greet() end\n", "M.greet", false},
		{"dotted_spaces", "function M . greet() end\n", "M.greet", false},
		{"nested", "function a.b.c() end\n", "a.b.c", false},
		{"method", "function Account:deposit(v) end\n", "Account.deposit", true},
		{"nested_method", "function game.Player:move(dx) end\n", "game.Player.move", true},
		{"local", "local function helper() end\n", "helper", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, source := firstDeclaration(t, tt.code)
			got, method, err := ResolveName(luaSpec(t), node, source)
			if err != nil {
				t.Fatalf("ResolveName: %v", err)
			}
			if got != tt.wantName {
				t.Errorf("name = %q, want %q", got, tt.wantName)
			}
			if method != tt.wantMethod {
				t.Errorf("method = %v, want %v", method, tt.wantMethod)
			}
		})
	}
}

// brokenQualifiedSpec expects a member field that tree-sitter-lua never
// produces, so every qualified name is missing its method part.
func brokenQualifiedSpec(t *testing.T) *lang.LanguageSpec {
	t.Helper()
	spec := *luaSpec(t)
	spec.QualifiedNames = []lang.QualifiedName{
		{Kind: "dot_index_expression", TableField: "table", MemberField: "missing"},
		{Kind: "method_index_expression", TableField: "table", MemberField: "missing", Method: true},
	}
	return &spec
}

func TestResolveNameUnresolvable(t *testing.T) {
	node, source := firstDeclaration(t, "function M.greet() end\n")
	_, _, err := ResolveName(brokenQualifiedSpec(t), node, source)
	if !errors.Is(err, ErrUnresolvableName) {
		t.Fatalf("err = %v, want ErrUnresolvableName", err)
	}

	// Plain identifiers still resolve under the same spec.
	node, source = firstDeclaration(t, "function greet() end\n")
	name, _, err := ResolveName(brokenQualifiedSpec(t), node, source)
	if err != nil || name != "greet" {
		t.Errorf("ResolveName = %q, %v; want greet", name, err)
	}
}

func TestResolveParameters(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"none", "function f() end\n", []string{}},
		{"named", "function f(a, b) end\n", []string{"a", "b"}},
		{"variadic", "function f(a, b, ...) end\n", []string{"a", "b", "..."}},
		{"only_variadic", "function f(...) end\n", []string{"..."}},
		{"method_self_implicit", "function T:m(x) end\n", []string{"x"}},
		{"local", "local function f(x, ...) end\n", []string{"x", "..."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, source := firstDeclaration(t, tt.code)
			got := ResolveParameters(luaSpec(t), node, source)
			if got == nil {
				t.Fatal("parameters must be non-nil")
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("parameters = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveParametersMissingList(t *testing.T) {
	node, source := firstDeclaration(t, "function f(a) end\n")
	spec := *luaSpec(t)
	spec.ParametersField = "no_such_field"
	got := ResolveParameters(&spec, node, source)
	if got == nil || len(got) != 0 {
		t.Errorf("parameters = %v, want empty", got)
	}
}
