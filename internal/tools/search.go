package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/lua-chunks/internal/chunk"
	"github.com/DeusData/lua-chunks/internal/store"
)

const defaultSearchLimit = 50

func (s *Server) handleSearchFunctions(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	params := store.SearchParams{
		NamePattern: getStringArg(args, "name_pattern"),
		FilePattern: getStringArg(args, "file_pattern"),
		LocalOnly:   getBoolArg(args, "local_only"),
		Limit:       getIntArg(args, "limit", defaultSearchLimit),
	}
	if params.Limit <= 0 {
		params.Limit = defaultSearchLimit
	}

	found, err := s.store.SearchFunctions(params)
	if err != nil {
		return errResult(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := make([]map[string]any, 0, len(found))
	for _, sc := range found {
		results = append(results, summarize(sc))
	}
	return jsonResult(map[string]any{
		"total":   len(results),
		"results": results,
	}), nil
}

func (s *Server) handleGetFunction(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	filePath := getStringArg(args, "file_path")

	found, err := s.store.FindFunction(name, filePath)
	if err != nil {
		return errResult(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if len(found) == 0 {
		return errResult(fmt.Sprintf("function not found: %s", name)), nil
	}

	matches := make([]chunk.Record, 0, len(found))
	for _, sc := range found {
		matches = append(matches, sc.Chunk.Record())
	}
	return jsonResult(map[string]any{
		"name":    name,
		"matches": matches,
	}), nil
}

func (s *Server) handleListFiles(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.store.ListFiles()
	if err != nil {
		return errResult(fmt.Sprintf("list files: %v", err)), nil
	}
	if files == nil {
		files = []store.FileEntry{}
	}
	return jsonResult(map[string]any{
		"total": len(files),
		"files": files,
	}), nil
}

func summarize(sc store.StoredChunk) map[string]any {
	c := sc.Chunk
	return map[string]any{
		"function_name": c.FunctionName(),
		"file_path":     sc.FilePath,
		"start_line":    c.StartLine(),
		"end_line":      c.EndLine(),
		"is_local":      c.IsLocal(),
		"parameters":    c.Parameters(),
	}
}
