package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/lua-chunks/internal/chunk"
)

// IndexResult summarizes one Index run.
type IndexResult struct {
	Result  *chunk.DirectoryResult
	Removed int
}

// Index extracts path into the store. Failed files lose their stored chunks
// and stored files under path that no longer exist on disk are removed.
func (s *Server) Index(ctx context.Context, path string) (*IndexResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Lock to prevent concurrent indexing with the watcher
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	res, err := s.extractor.Extract(ctx, absPath)
	if err != nil {
		return nil, err
	}

	var removed int
	for _, f := range res.Failures {
		if err := s.store.DeleteFile(f.Path); err != nil {
			slog.Warn("index.delete.err", "path", f.Path, "err", err)
		}
	}

	files, err := s.store.ListFiles()
	if err != nil {
		return nil, err
	}
	prefix := absPath + string(filepath.Separator)
	for _, f := range files {
		if f.Path != absPath && !strings.HasPrefix(f.Path, prefix) {
			continue
		}
		if _, statErr := os.Stat(f.Path); !errors.Is(statErr, fs.ErrNotExist) {
			continue
		}
		if err := s.store.DeleteFile(f.Path); err != nil {
			slog.Warn("index.delete.err", "path", f.Path, "err", err)
			continue
		}
		removed++
	}
	slog.Info("index.done", "root", absPath, "files", len(res.Order), "chunks", res.ChunkCount(),
		"failures", len(res.Failures), "removed", removed)
	return &IndexResult{Result: res, Removed: removed}, nil
}

func (s *Server) handleExtractFunctions(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	path := getStringArg(args, "path")
	if path == "" {
		return errResult("path is required"), nil
	}

	ir, err := s.Index(ctx, path)
	if err != nil {
		return errResult(fmt.Sprintf("extraction failed: %v", err)), nil
	}

	res := ir.Result
	files := make([]map[string]any, 0, len(res.Order))
	res.Each(func(p string, chunks []chunk.Chunk) {
		names := make([]string, 0, len(chunks))
		for _, c := range chunks {
			names = append(names, c.FunctionName())
		}
		files = append(files, map[string]any{
			"path":      p,
			"chunks":    len(chunks),
			"functions": names,
		})
	})
	failures := make([]map[string]any, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, map[string]any{
			"path":  f.Path,
			"error": f.Err.Error(),
		})
	}

	return jsonResult(map[string]any{
		"root":     res.Root,
		"files":    files,
		"chunks":   res.ChunkCount(),
		"failures": failures,
		"removed":  ir.Removed,
	}), nil
}
