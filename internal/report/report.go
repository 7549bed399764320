// Package report renders extraction results as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/lua-chunks/internal/chunk"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const ruleWidth = 80

// Document is the structured form of a directory result.
type Document struct {
	Root     string         `json:"root" yaml:"root"`
	Files    []FileDocument `json:"files" yaml:"files"`
	Failures []Failure      `json:"failures" yaml:"failures"`
}

// FileDocument lists the chunks of one file.
type FileDocument struct {
	Path   string         `json:"path" yaml:"path"`
	Chunks []chunk.Record `json:"chunks" yaml:"chunks"`
}

// Failure is a file that could not be extracted.
type Failure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// NewDocument converts res into its structured form, in result order.
func NewDocument(res *chunk.DirectoryResult) Document {
	doc := Document{Root: res.Root, Files: []FileDocument{}, Failures: []Failure{}}
	res.Each(func(path string, chunks []chunk.Chunk) {
		fd := FileDocument{Path: path, Chunks: make([]chunk.Record, 0, len(chunks))}
		for _, c := range chunks {
			fd.Chunks = append(fd.Chunks, c.Record())
		}
		doc.Files = append(doc.Files, fd)
	})
	for _, f := range res.Failures {
		doc.Failures = append(doc.Failures, Failure{Path: f.Path, Error: f.Err.Error()})
	}
	return doc
}

// Write renders res to w in the named format.
func Write(w io.Writer, format string, res *chunk.DirectoryResult) error {
	switch format {
	case FormatText, "":
		return WriteText(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatYAML:
		return WriteYAML(w, res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteText writes the plain-text report: a header and rule per file, then
// each chunk's fields followed by a dashed rule.
func WriteText(w io.Writer, res *chunk.DirectoryResult) error {
	return writeText(w, res, false)
}

// Print writes the console variant of the text report, which also shows
// each chunk's metadata.
func Print(w io.Writer, res *chunk.DirectoryResult) error {
	return writeText(w, res, true)
}

func writeText(w io.Writer, res *chunk.DirectoryResult, withMetadata bool) error {
	ew := &errWriter{w: w}
	res.Each(func(path string, chunks []chunk.Chunk) {
		ew.printf("\nFile: %s\n", path)
		ew.printf("%s\n", strings.Repeat("=", ruleWidth))
		for _, c := range chunks {
			ew.printf("Function: %s\n", c.FunctionName())
			ew.printf("Kind: %s\n", scope(c))
			ew.printf("Parameters: [%s]\n", strings.Join(c.Parameters(), ", "))
			if !withMetadata {
				ew.printf("File path: %s\n", c.FilePath())
			}
			ew.printf("Lines: %d-%d\n", c.StartLine(), c.EndLine())
			if comments := c.Comments(); len(comments) > 0 {
				ew.printf("Comments:\n")
				for _, cm := range comments {
					ew.printf("  %s\n", cm)
				}
			}
			if withMetadata {
				ew.printf("Metadata: %s\n", formatMetadata(c.Metadata()))
			}
			ew.printf("Content:\n%s\n", c.Content())
			ew.printf("%s\n", strings.Repeat("-", ruleWidth))
		}
	})
	if len(res.Failures) > 0 {
		ew.printf("\nFailures: %d\n", len(res.Failures))
		for _, f := range res.Failures {
			ew.printf("  %s: %v\n", f.Path, f.Err)
		}
	}
	return ew.err
}

// WriteJSON writes the structured document as indented JSON.
func WriteJSON(w io.Writer, res *chunk.DirectoryResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res))
}

// WriteYAML writes the structured document as YAML.
func WriteYAML(w io.Writer, res *chunk.DirectoryResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(res)); err != nil {
		return err
	}
	return enc.Close()
}

func scope(c chunk.Chunk) string {
	if c.IsLocal() {
		return "local"
	}
	return "global"
}

func formatMetadata(md map[string]any) string {
	keys := slices.Sorted(maps.Keys(md))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, md[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
