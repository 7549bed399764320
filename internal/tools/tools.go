package tools

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/lua-chunks/internal/chunk"
	"github.com/DeusData/lua-chunks/internal/store"
)

// Version is reported in the MCP implementation info.
var Version = "dev"

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp       *mcp.Server
	store     *store.Store
	extractor *chunk.Extractor
	indexMu   sync.Mutex
}

// NewServer creates a new MCP server with all tools registered. Extraction
// runs with opts and always persists through the store.
func NewServer(s *store.Store, opts chunk.Options) (*Server, error) {
	opts.Cache = s.Cache()
	ex, err := chunk.New(opts)
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}
	srv := &Server{
		store:     s,
		extractor: ex,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "lua-chunks",
				Version: Version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv, nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "extract_functions",
		Description: "Extract every function declaration from a Lua file or directory tree and store the chunks for searching. Unchanged files are served from the content-hash cache; files that fail to read or decode are reported and skipped.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "Lua file or directory to extract (absolute or relative to the server's working directory)"
				}
			},
			"required": ["path"]
		}`),
	}, s.handleExtractFunctions)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_functions",
		Description: "Search stored function chunks by name substring (case-insensitive), file glob and locality. Returns name, file, line span and parameters for each match in file order.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name_pattern": {
					"type": "string",
					"description": "Substring of the function name, e.g. 'handler' or 'M.get'"
				},
				"file_pattern": {
					"type": "string",
					"description": "Glob for the file path, e.g. '**/net/*.lua'"
				},
				"local_only": {
					"type": "boolean",
					"description": "Only return local functions"
				},
				"limit": {
					"type": "integer",
					"description": "Maximum results (default 50)"
				}
			}
		}`),
	}, s.handleSearchFunctions)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_function",
		Description: "Return the full chunk for a function by exact name: source text, parameters, leading comments and metadata. Several files may declare the same name; pass file_path to pick one.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"description": "Exact function name as extracted, e.g. 'M.add' or 'Obj.run'"
				},
				"file_path": {
					"type": "string",
					"description": "Restrict the lookup to this file"
				}
			},
			"required": ["name"]
		}`),
	}, s.handleGetFunction)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_files",
		Description: "List every file with stored chunks, its content hash, extraction time and chunk count.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListFiles)
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

// getBoolArg extracts a boolean argument from parsed args.
func getBoolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}
