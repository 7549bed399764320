package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// FileEntry is a file whose chunks are stored.
type FileEntry struct {
	Path        string `json:"path"`
	Hash        string `json:"hash"`
	ExtractedAt string `json:"extracted_at"`
	ChunkCount  int    `json:"chunk_count"`
}

// FileHash returns the stored content hash for path.
func (s *Store) FileHash(path string) (string, bool, error) {
	var hash string
	err := s.q.QueryRow("SELECT hash FROM files WHERE path=?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("file hash: %w", err)
	}
	return hash, true, nil
}

// ListFiles returns every stored file ordered by path.
func (s *Store) ListFiles() ([]FileEntry, error) {
	rows, err := s.q.Query("SELECT path, hash, extracted_at, chunk_count FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	var result []FileEntry
	for rows.Next() {
		var f FileEntry
		if err := rows.Scan(&f.Path, &f.Hash, &f.ExtractedAt, &f.ChunkCount); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// DeleteFile removes a file and its chunks (CASCADE).
func (s *Store) DeleteFile(path string) error {
	_, err := s.q.Exec("DELETE FROM files WHERE path=?", path)
	return err
}

// PruneFiles deletes stored files under none of keep. It returns the number
// of files removed.
func (s *Store) PruneFiles(keep map[string]bool) (int, error) {
	files, err := s.ListFiles()
	if err != nil {
		return 0, err
	}
	var removed int
	for _, f := range files {
		if keep[f.Path] {
			continue
		}
		if err := s.DeleteFile(f.Path); err != nil {
			return removed, fmt.Errorf("delete %s: %w", f.Path, err)
		}
		removed++
	}
	return removed, nil
}
