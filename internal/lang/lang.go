package lang

// Language represents a supported scripting language.
type Language string

const (
	Lua Language = "lua"
)

// AllLanguages returns all supported languages.
func AllLanguages() []Language {
	return []Language{Lua}
}

// QualifiedName describes a tree-sitter node kind that spells a dotted
// function name (e.g. Lua's t.f or t:m) and the fields holding its two halves.
type QualifiedName struct {
	Kind        string
	TableField  string
	MemberField string
	// Method is true when the shape declares a method receiving an
	// implicit self (Lua's colon syntax).
	Method bool
}

// LanguageSpec defines the tree-sitter node types the chunk extractor
// needs for a language.
type LanguageSpec struct {
	Language       Language
	FileExtensions []string
	// ModuleNodeTypes is the root node kind of a parsed file.
	ModuleNodeTypes []string
	// FunctionNodeTypes are statement-level function declarations.
	FunctionNodeTypes []string
	// LocalFunctionNodeTypes are declarations that always bind a block-local
	// name. Grammars that alias local declarations onto FunctionNodeTypes mark
	// them with LocalKeyword as the first child instead.
	LocalFunctionNodeTypes []string
	LocalKeyword           string
	// NameField and ParametersField are the field names on a declaration node.
	NameField       string
	ParametersField string
	// IdentifierNodeTypes are simple names.
	IdentifierNodeTypes []string
	// QualifiedNames are the dotted-name shapes accepted in NameField.
	QualifiedNames []QualifiedName
	// ParameterNodeTypes contribute their own text to the parameter list;
	// VarargNodeTypes contribute the literal "...".
	ParameterNodeTypes []string
	VarargNodeTypes    []string
	// CommentNodeTypes are comment extras attached as siblings.
	CommentNodeTypes []string
}

// registry maps file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".lua").
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(lang Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == lang {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}

// QualifiedNameFor returns the qualified-name shape for a node kind.
func (s *LanguageSpec) QualifiedNameFor(kind string) (QualifiedName, bool) {
	for _, q := range s.QualifiedNames {
		if q.Kind == kind {
			return q, true
		}
	}
	return QualifiedName{}, false
}

// IsComment reports whether kind is a comment node kind.
func (s *LanguageSpec) IsComment(kind string) bool {
	return contains(s.CommentNodeTypes, kind)
}

// IsFunction reports whether kind is a statement-level function declaration.
func (s *LanguageSpec) IsFunction(kind string) bool {
	return contains(s.FunctionNodeTypes, kind)
}

// IsLocalFunction reports whether kind always declares a local function.
func (s *LanguageSpec) IsLocalFunction(kind string) bool {
	return contains(s.LocalFunctionNodeTypes, kind)
}

// IsIdentifier reports whether kind is a simple name.
func (s *LanguageSpec) IsIdentifier(kind string) bool {
	return contains(s.IdentifierNodeTypes, kind)
}

// IsParameter reports whether kind is a named parameter.
func (s *LanguageSpec) IsParameter(kind string) bool {
	return contains(s.ParameterNodeTypes, kind)
}

// IsVararg reports whether kind is a variadic marker.
func (s *LanguageSpec) IsVararg(kind string) bool {
	return contains(s.VarargNodeTypes, kind)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
