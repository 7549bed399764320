// Package chunk extracts self-contained function chunks from Lua source:
// one chunk per function declaration, carrying its verbatim text, line span,
// declared name, parameters, locality and the comment block above it.
package chunk

import (
	"encoding/json"
	"maps"
	"slices"
)

// Metadata keys always present on a chunk. MetaModule and MetaQualifiedName
// are added when the chunk is extracted from a file.
const (
	MetaFilePath    = "file_path"
	MetaStartLine   = "start_line"
	MetaEndLine     = "end_line"
	MetaStartColumn = "start_column"
	MetaEndColumn   = "end_column"
	MetaKind        = "kind"
	MetaMethod      = "method"
	MetaLanguage    = "language"

	MetaModule        = "module"
	MetaQualifiedName = "qualified_name"
)

// Chunk is one extracted function declaration. It is immutable: accessors
// return copies of its collections.
type Chunk struct {
	name       string
	content    string
	startLine  int
	endLine    int
	metadata   map[string]any
	parameters []string
	local      bool
	comments   []string
}

// FunctionName is the declared name, dot-joined for table methods.
func (c Chunk) FunctionName() string { return c.name }

// Content is the byte-exact source text of the declaration.
func (c Chunk) Content() string { return c.content }

// StartLine is the 1-based first line of the declaration.
func (c Chunk) StartLine() int { return c.startLine }

// EndLine is the 1-based last line of the declaration (inclusive).
func (c Chunk) EndLine() int { return c.endLine }

// IsLocal reports whether the function is a block-local binding.
func (c Chunk) IsLocal() bool { return c.local }

// Parameters returns the parameter names in declaration order; a variadic
// parameter is the final entry "...".
func (c Chunk) Parameters() []string { return slices.Clone(c.parameters) }

// Comments returns the leading comment nodes, top to bottom.
func (c Chunk) Comments() []string { return slices.Clone(c.comments) }

// Metadata returns a copy of the chunk's metadata bag.
func (c Chunk) Metadata() map[string]any { return maps.Clone(c.metadata) }

// FilePath returns the file the chunk was extracted from.
func (c Chunk) FilePath() string {
	s, _ := c.metadata[MetaFilePath].(string)
	return s
}

// Record is the serializable form of a Chunk.
type Record struct {
	FunctionName string         `json:"function_name" yaml:"function_name"`
	Content      string         `json:"content" yaml:"content"`
	StartLine    int            `json:"start_line" yaml:"start_line"`
	EndLine      int            `json:"end_line" yaml:"end_line"`
	Metadata     map[string]any `json:"metadata" yaml:"metadata"`
	Parameters   []string       `json:"parameters" yaml:"parameters"`
	IsLocal      bool           `json:"is_local" yaml:"is_local"`
	Comments     []string       `json:"comments" yaml:"comments"`
}

// Record returns a copy of the chunk as a Record.
func (c Chunk) Record() Record {
	return Record{
		FunctionName: c.name,
		Content:      c.content,
		StartLine:    c.startLine,
		EndLine:      c.endLine,
		Metadata:     c.Metadata(),
		Parameters:   c.Parameters(),
		IsLocal:      c.local,
		Comments:     c.Comments(),
	}
}

// FromRecord rebuilds a Chunk from its serialized form. Numeric metadata
// decoded from JSON as float64 or json.Number is normalized back to int.
func FromRecord(r Record) Chunk {
	md := make(map[string]any, len(r.Metadata))
	for k, v := range r.Metadata {
		md[k] = normalizeNumber(v)
	}
	return Chunk{
		name:       r.FunctionName,
		content:    r.Content,
		startLine:  r.StartLine,
		endLine:    r.EndLine,
		metadata:   md,
		parameters: nonNil(r.Parameters),
		local:      r.IsLocal,
		comments:   nonNil(r.Comments),
	}
}

// MarshalJSON encodes the chunk as its Record.
func (c Chunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Record())
}

// MarshalYAML encodes the chunk as its Record.
func (c Chunk) MarshalYAML() (any, error) {
	return c.Record(), nil
}

func normalizeNumber(v any) any {
	switch n := v.(type) {
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
