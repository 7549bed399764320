package chunk

import "testing"

func TestCollectComments(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			"three_lines",
			"-- one\n-- two\n-- three\nfunction f() end\n",
			[]string{"-- one", "-- two", "-- three"},
		},
		{
			"none",
			"function f() end\n",
			[]string{},
		},
		{
			"separated_by_statement",
			"-- about x\nlocal x = 1\nfunction f() end\n",
			[]string{},
		},
		{
			"blank_line_gap",
			"-- doc\n\nfunction f() end\n",
			[]string{"-- doc"},
		},
		{
			"block_comment",
			"--[[ block\n doc ]]\nfunction f() end\n",
			[]string{"--[[ block\n doc ]]"},
		},
		{
			"stops_at_statement",
			"-- stray\nlocal y = 2\n--- doc a\n--- doc b\nfunction f() end\n",
			[]string{"--- doc a", "--- doc b"},
		},
		{
			"local_function",
			"-- helper doc\nlocal function h() end\n",
			[]string{"-- helper doc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, source := firstDeclaration(t, tt.code)
			got := CollectComments(luaSpec(t), node, source)
			if got == nil {
				t.Fatal("comments must be non-nil")
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("comments = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectCommentsPerDeclaration(t *testing.T) {
	tree, source := parseLua(t, "-- a doc\nfunction a() end\n-- b doc\nfunction b() end\nfunction c() end\n")
	nodes := declarations(t, tree)
	if len(nodes) != 3 {
		t.Fatalf("declarations = %d, want 3", len(nodes))
	}
	spec := luaSpec(t)
	want := [][]string{{"-- a doc"}, {"-- b doc"}, {}}
	for i, n := range nodes {
		if got := CollectComments(spec, n, source); !equalStrings(got, want[i]) {
			t.Errorf("decl %d comments = %q, want %q", i, got, want[i])
		}
	}
}
