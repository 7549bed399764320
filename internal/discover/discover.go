package discover

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/DeusData/lua-chunks/internal/lang"
)

// IgnoreFileName is the per-root ignore file read when Options.IgnoreFile is empty.
const IgnoreFileName = ".luachunksignore"

// IGNORE_PATTERNS are directory names to skip during discovery.
var IGNORE_PATTERNS = map[string]bool{
	".cache": true, ".git": true, ".hg": true, ".idea": true,
	".luarocks": true, ".svn": true, ".tmp": true, ".vs": true,
	".vscode": true, "build": true, "coverage": true, "dist": true,
	"lua_modules": true, "node_modules": true, "out": true,
	"temp": true, "tmp": true, "vendor": true,
}

// IGNORE_SUFFIXES are file suffixes to skip.
var IGNORE_SUFFIXES = map[string]bool{
	".tmp": true, "~": true, ".bak": true, ".swp": true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to the discovery root, slash separated
	Language lang.Language // detected language
}

// Options configures file discovery.
type Options struct {
	IgnoreFile string   // path to an ignore file (optional)
	Ignore     []string // extra doublestar patterns matched against names and relative paths
}

// shouldSkip returns true if a name or slash-separated relative path matches
// any of the extra ignore patterns.
func shouldSkip(name, rel string, extraIgnore []string) bool {
	for _, pattern := range extraIgnore {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks root and returns every Lua source file in lexical order.
// A root that is a single file is returned as-is when it has a supported
// extension.
func Discover(ctx context.Context, root string, opts *Options) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !rootInfo.IsDir() {
		l, ok := lang.LanguageForExtension(filepath.Ext(root))
		if !ok {
			return nil, nil
		}
		return []FileInfo{{Path: root, RelPath: filepath.Base(root), Language: l}}, nil
	}

	var extraIgnore []string
	if opts != nil {
		extraIgnore = append(extraIgnore, opts.Ignore...)
	}
	if opts != nil && opts.IgnoreFile != "" {
		patterns, _ := loadIgnoreFile(opts.IgnoreFile)
		extraIgnore = append(extraIgnore, patterns...)
	} else {
		patterns, _ := loadIgnoreFile(filepath.Join(root, IgnoreFileName))
		extraIgnore = append(extraIgnore, patterns...)
	}

	var files []FileInfo

	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == root {
				return walkErr
			}
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if path == root {
				return nil
			}
			if IGNORE_PATTERNS[info.Name()] || shouldSkip(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		for suffix := range IGNORE_SUFFIXES {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}

		l, ok := lang.LanguageForExtension(filepath.Ext(path))
		if !ok || shouldSkip(info.Name(), rel, extraIgnore) {
			return nil
		}
		files = append(files, FileInfo{
			Path:     path,
			RelPath:  rel,
			Language: l,
		})
		return nil
	})

	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
