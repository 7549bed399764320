package chunk

// FileResult is the outcome of one file: its chunks in source order, or the
// reason it was skipped.
type FileResult struct {
	Path   string
	Chunks []Chunk
	Err    error
}

// OK reports whether the file was extracted.
func (r FileResult) OK() bool { return r.Err == nil }

// DirectoryResult maps file paths to their chunks. Only files that yielded
// at least one chunk appear in Files; Order lists those paths in discovery
// order and is the iteration order for reporting.
type DirectoryResult struct {
	Root     string
	Files    map[string][]Chunk
	Order    []string
	Failures []FileResult
}

func newDirectoryResult(root string) *DirectoryResult {
	return &DirectoryResult{
		Root:  root,
		Files: make(map[string][]Chunk),
	}
}

func (d *DirectoryResult) add(r FileResult) {
	if r.Err != nil {
		d.Failures = append(d.Failures, FileResult{Path: r.Path, Err: r.Err})
		return
	}
	if len(r.Chunks) == 0 {
		return
	}
	if _, seen := d.Files[r.Path]; !seen {
		d.Order = append(d.Order, r.Path)
	}
	d.Files[r.Path] = r.Chunks
}

// Chunks returns the chunks extracted from path, or nil.
func (d *DirectoryResult) Chunks(path string) []Chunk {
	return d.Files[path]
}

// ChunkCount returns the total number of chunks across all files.
func (d *DirectoryResult) ChunkCount() int {
	var n int
	for _, chunks := range d.Files {
		n += len(chunks)
	}
	return n
}

// Each calls fn for every file in Order.
func (d *DirectoryResult) Each(fn func(path string, chunks []Chunk)) {
	for _, path := range d.Order {
		fn(path, d.Files[path])
	}
}
