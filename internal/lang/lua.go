package lang

func init() {
	Register(&LanguageSpec{
		Language:        Lua,
		FileExtensions:  []string{".lua"},
		ModuleNodeTypes: []string{"chunk"},
		// tree-sitter-lua aliases `local function f() end` onto
		// function_declaration with a leading "local" token. The dedicated
		// kinds cover grammar variants that keep a separate node.
		FunctionNodeTypes:      []string{"function_declaration"},
		LocalFunctionNodeTypes: []string{"local_function_declaration", "local_function"},
		LocalKeyword:           "local",
		NameField:              "name",
		ParametersField:        "parameters",
		IdentifierNodeTypes:    []string{"identifier"},
		QualifiedNames: []QualifiedName{
			{Kind: "dot_index_expression", TableField: "table", MemberField: "field"},
			{Kind: "method_index_expression", TableField: "table", MemberField: "method", Method: true},
		},
		ParameterNodeTypes: []string{"identifier"},
		VarargNodeTypes:    []string{"vararg_expression"},
		CommentNodeTypes:   []string{"comment"},
	})
}
