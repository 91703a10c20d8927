package core

import "pkt.systems/ctxdesk/schema"

// FileResolver maps stored paths back to known files. It holds no session
// state; a resolver is built per restore from the current file listing.
type FileResolver struct {
	byPath map[string]schema.FileRef
}

// NewFileResolver indexes files by normalized path. When the listing holds a
// path twice the first entry wins.
func NewFileResolver(files []schema.FileRef) *FileResolver {
	byPath := make(map[string]schema.FileRef, len(files))
	for _, file := range files {
		normalized, ok := normalizeFileRef(file)
		if !ok {
			continue
		}
		if _, exists := byPath[normalized.Path]; exists {
			continue
		}
		byPath[normalized.Path] = normalized
	}
	return &FileResolver{byPath: byPath}
}

// Resolve returns the known file for path, or false when it is missing.
func (r *FileResolver) Resolve(path string) (schema.FileRef, bool) {
	if r == nil {
		return schema.FileRef{}, false
	}
	file, ok := r.byPath[schema.NormalizePath(path)]
	return file, ok
}

// Len returns the number of indexed files.
func (r *FileResolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byPath)
}
