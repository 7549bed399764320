package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/DeusData/lua-chunks/internal/chunk"
)

// StoredChunk is a chunk row together with its database identity.
type StoredChunk struct {
	ID       int64
	FilePath string
	Seq      int
	Chunk    chunk.Chunk
}

// SearchParams filters SearchFunctions.
type SearchParams struct {
	NamePattern string // substring of function_name, case-insensitive
	FilePattern string // doublestar glob matched against file_path
	LocalOnly   bool
	Limit       int
}

const chunkColumns = "id, file_path, seq, function_name, content, start_line, end_line, is_local, parameters, comments, metadata"

// ReplaceFile atomically replaces every chunk stored for path and records
// its content hash.
func (s *Store) ReplaceFile(path, hash string, chunks []chunk.Chunk) error {
	return s.WithTransaction(func(tx *Store) error {
		return tx.replaceFile(path, hash, chunks)
	})
}

func (s *Store) replaceFile(path, hash string, chunks []chunk.Chunk) error {
	if err := s.DeleteFile(path); err != nil {
		return fmt.Errorf("clear %s: %w", path, err)
	}
	_, err := s.q.Exec(`INSERT INTO files (path, hash, extracted_at, chunk_count) VALUES (?, ?, ?, ?)`,
		path, hash, Now(), len(chunks))
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	for i, c := range chunks {
		isLocal := 0
		if c.IsLocal() {
			isLocal = 1
		}
		_, err := s.q.Exec(`INSERT INTO chunks (file_path, seq, function_name, content, start_line, end_line, is_local, parameters, comments, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			path, i, c.FunctionName(), c.Content(), c.StartLine(), c.EndLine(), isLocal,
			marshalJSON(c.Parameters(), "[]"), marshalJSON(c.Comments(), "[]"), marshalJSON(c.Metadata(), "{}"))
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}
	return nil
}

// LoadChunks returns the chunks stored for path in extraction order.
func (s *Store) LoadChunks(path string) ([]chunk.Chunk, error) {
	rows, err := s.q.Query("SELECT "+chunkColumns+" FROM chunks WHERE file_path=? ORDER BY seq", path)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	defer rows.Close()
	stored, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}
	out := make([]chunk.Chunk, 0, len(stored))
	for _, sc := range stored {
		out = append(out, sc.Chunk)
	}
	return out, nil
}

// SearchFunctions finds stored chunks matching params, ordered by file and
// position.
func (s *Store) SearchFunctions(params SearchParams) ([]StoredChunk, error) {
	if params.FilePattern != "" && !doublestar.ValidatePattern(params.FilePattern) {
		return nil, fmt.Errorf("invalid file pattern %q", params.FilePattern)
	}
	var where []string
	var args []any
	if params.NamePattern != "" {
		where = append(where, "LOWER(function_name) LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(strings.ToLower(params.NamePattern))+"%")
	}
	if params.LocalOnly {
		where = append(where, "is_local = 1")
	}
	query := "SELECT " + chunkColumns + " FROM chunks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY file_path, seq"

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search functions: %w", err)
	}
	defer rows.Close()
	all, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}

	var result []StoredChunk
	for _, sc := range all {
		if params.FilePattern != "" && !matchFile(params.FilePattern, sc.FilePath) {
			continue
		}
		result = append(result, sc)
		if params.Limit > 0 && len(result) >= params.Limit {
			break
		}
	}
	return result, nil
}

// FindFunction returns chunks with exactly the given name. When filePath is
// non-empty only that file is searched.
func (s *Store) FindFunction(name, filePath string) ([]StoredChunk, error) {
	query := "SELECT " + chunkColumns + " FROM chunks WHERE function_name=?"
	args := []any{name}
	if filePath != "" {
		query += " AND file_path=?"
		args = append(args, filePath)
	}
	query += " ORDER BY file_path, seq"
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find function: %w", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

// CountChunks returns the total number of stored chunks.
func (s *Store) CountChunks() (int, error) {
	var n int
	err := s.q.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanChunks(rows rowScanner) ([]StoredChunk, error) {
	var result []StoredChunk
	for rows.Next() {
		var (
			sc                            StoredChunk
			r                             chunk.Record
			isLocal                       int
			params, comments, metadataRaw string
		)
		if err := rows.Scan(&sc.ID, &sc.FilePath, &sc.Seq, &r.FunctionName, &r.Content,
			&r.StartLine, &r.EndLine, &isLocal, &params, &comments, &metadataRaw); err != nil {
			return nil, err
		}
		r.IsLocal = isLocal == 1
		r.Parameters = unmarshalStrings(params)
		r.Comments = unmarshalStrings(comments)
		r.Metadata = unmarshalProps(metadataRaw)
		sc.Chunk = chunk.FromRecord(r)
		result = append(result, sc)
	}
	return result, rows.Err()
}

// matchFile matches a glob against a stored path. Absolute paths are also
// tried without their leading slash so "**/x.lua" style patterns apply.
func matchFile(pattern, path string) bool {
	p := filepath.ToSlash(path)
	if ok, _ := doublestar.Match(pattern, p); ok {
		return true
	}
	trimmed := strings.TrimPrefix(p, "/")
	if trimmed == p {
		return false
	}
	ok, _ := doublestar.Match(pattern, trimmed)
	return ok
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
