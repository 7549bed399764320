package chunk

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"time"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/DeusData/lua-chunks/internal/discover"
	"github.com/DeusData/lua-chunks/internal/fqn"
	"github.com/DeusData/lua-chunks/internal/lang"
	"github.com/DeusData/lua-chunks/internal/parser"
)

// cancelCheckInterval is how many nodes are visited between context checks.
const cancelCheckInterval = 1024

// Cache stores per-file extraction results keyed by content hash.
// Implementations log their own failures; a miss just means re-extract.
type Cache interface {
	Lookup(path, hash string) ([]Chunk, bool)
	Save(path, hash string, chunks []Chunk)
}

// Options configures an Extractor.
type Options struct {
	// Language selects the grammar. Defaults to Lua.
	Language lang.Language
	// Spec overrides the node kinds used for classification. Defaults to
	// the registered spec for Language.
	Spec *lang.LanguageSpec
	// Workers bounds concurrent files in directory mode (0 = NumCPU).
	Workers int
	// FileTimeout bounds each file's extraction (0 = none).
	FileTimeout time.Duration
	// StrictSyntax fails files whose tree contains syntax errors.
	StrictSyntax bool
	// Discover configures directory traversal.
	Discover *discover.Options
	// Cache, if set, short-circuits unchanged files.
	Cache Cache
}

// Extractor turns Lua files into function chunks.
type Extractor struct {
	opts Options
	spec *lang.LanguageSpec
}

// New creates an Extractor.
func New(opts Options) (*Extractor, error) {
	if opts.Language == "" {
		opts.Language = lang.Lua
	}
	spec := opts.Spec
	if spec == nil {
		spec = lang.ForLanguage(opts.Language)
	}
	if spec == nil {
		return nil, fmt.Errorf("unsupported language: %s", opts.Language)
	}
	if _, err := parser.GetLanguage(opts.Language); err != nil {
		return nil, err
	}
	return &Extractor{opts: opts, spec: spec}, nil
}

// ExtractSource extracts chunks from in-memory source attributed to path.
func (e *Extractor) ExtractSource(ctx context.Context, path string, source []byte) ([]Chunk, error) {
	source = stripBOM(source)
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("decode %s: %w", path, ErrInvalidEncoding)
	}

	tree, err := parser.Parse(e.opts.Language, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if e.opts.StrictSyntax && root.HasError() {
		return nil, fmt.Errorf("parse %s: %w", path, ErrSyntax)
	}
	return e.walk(ctx, root, source, path)
}

// walk visits every node under root in source order, building a chunk for
// each declaration and always descending so nested declarations are found.
func (e *Extractor) walk(ctx context.Context, root *tree_sitter.Node, source []byte, path string) ([]Chunk, error) {
	chunks := []Chunk{}
	var visited int
	var walkErr error
	parser.Walk(root, func(node *tree_sitter.Node) bool {
		if walkErr != nil {
			return false
		}
		if visited%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				walkErr = err
				return false
			}
		}
		visited++
		if Classify(e.spec, node) == NotAFunction {
			return true
		}
		c, err := Build(e.spec, node, source, path)
		if err != nil {
			slog.Warn("extract.decl.skip", "path", path, "line", parser.StartLine(node), "err", err)
			return true
		}
		chunks = append(chunks, c)
		return true
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", path, walkErr)
	}
	return chunks, nil
}

// ExtractFile reads and extracts a single file. The module name recorded
// in metadata is derived from the file's base name.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]Chunk, error) {
	return e.extractFile(ctx, path, filepath.Base(path))
}

// extractFile extracts path, naming its module after rel, the path relative
// to the extraction root.
func (e *Extractor) extractFile(ctx context.Context, path, rel string) ([]Chunk, error) {
	if e.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.FileTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	module := fqn.Module(rel)

	var hash string
	if e.opts.Cache != nil {
		hash = contentHash(source)
		if cached, ok := e.opts.Cache.Lookup(path, hash); ok {
			slog.Debug("extract.cache.hit", "path", path, "chunks", len(cached))
			return withModule(cached, module), nil
		}
	}

	chunks, err := e.ExtractSource(ctx, path, source)
	if err != nil {
		return nil, err
	}
	chunks = withModule(chunks, module)
	if e.opts.Cache != nil {
		e.opts.Cache.Save(path, hash, chunks)
	}
	return chunks, nil
}

// withModule returns copies of chunks whose metadata names their module and
// module-qualified name.
func withModule(chunks []Chunk, module string) []Chunk {
	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		md := maps.Clone(c.metadata)
		if md == nil {
			md = map[string]any{}
		}
		md[MetaModule] = module
		md[MetaQualifiedName] = fqn.Compute(module, c.name)
		c.metadata = md
		out[i] = c
	}
	return out
}

// ExtractDirectory extracts every Lua file under root. Per-file failures are
// recorded in the result and never abort the run; the error is non-nil only
// when root itself cannot be walked.
func (e *Extractor) ExtractDirectory(ctx context.Context, root string) (*DirectoryResult, error) {
	t := time.Now()
	files, err := discover.Discover(ctx, root, e.opts.Discover)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	slog.Info("extract.start", "root", root, "files", len(files))

	rootIsFile := false
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		rootIsFile = true
	}
	paths := make([]string, len(files))
	for i, f := range files {
		if rootIsFile {
			paths[i] = root
			continue
		}
		paths[i] = filepath.Join(root, filepath.FromSlash(f.RelPath))
	}

	results := make([]FileResult, len(files))
	numWorkers := e.opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	g := new(errgroup.Group)
	if numWorkers > 0 {
		g.SetLimit(numWorkers)
	}
	for i, path := range paths {
		rel := files[i].RelPath
		g.Go(func() error {
			chunks, fileErr := e.extractFile(ctx, path, rel)
			results[i] = FileResult{Path: path, Chunks: chunks, Err: fileErr}
			return nil
		})
	}
	_ = g.Wait()

	out := newDirectoryResult(root)
	for _, r := range results {
		if r.Err != nil {
			slog.Warn("extract.file.err", "path", r.Path, "err", r.Err)
		}
		out.add(r)
	}
	slog.Info("extract.done", "root", root, "files", len(out.Order), "chunks", out.ChunkCount(),
		"failures", len(out.Failures), "elapsed", time.Since(t))
	return out, nil
}

// Extract dispatches to ExtractDirectory for directories and wraps a
// single-file run in the same result shape otherwise.
func (e *Extractor) Extract(ctx context.Context, path string) (*DirectoryResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return e.ExtractDirectory(ctx, path)
	}
	chunks, err := e.ExtractFile(ctx, path)
	out := newDirectoryResult(path)
	out.add(FileResult{Path: path, Chunks: chunks, Err: err})
	if err != nil {
		slog.Warn("extract.file.err", "path", path, "err", err)
	}
	return out, nil
}

// IsTimeout reports whether a file failure was caused by its deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func contentHash(source []byte) string {
	sum := xxh3.Hash128(source).Bytes()
	return hex.EncodeToString(sum[:])
}

func stripBOM(source []byte) []byte {
	if len(source) >= 3 && source[0] == 0xEF && source[1] == 0xBB && source[2] == 0xBF {
		return source[3:]
	}
	return source
}
