// Package catalog discovers the agent context files an editor session may open.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// DefaultInclude lists the files the catalog reports when no include
// patterns are configured.
var DefaultInclude = []string{
	"**/CLAUDE.md",
	"**/CLAUDE.local.md",
	"**/AGENTS.md",
	"**/GEMINI.md",
	"**/.cursorrules",
	"**/.cursor/rules/*.mdc",
	"**/.windsurfrules",
	"**/.github/copilot-instructions.md",
	"**/.clinerules",
}

// DefaultExclude prunes directories that never hold context files.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/.git/**",
}

// Config configures a Catalog.
type Config struct {
	Roots          []string
	Include        []string
	Exclude        []string
	MaxFileBytes   int64
	FollowSymlinks bool
}

// Catalog lists known files by scanning its roots.
type Catalog struct {
	cfg Config
	log pslog.Logger
}

// New validates cfg and constructs a Catalog.
func New(cfg Config, logger pslog.Logger) (*Catalog, error) {
	if len(cfg.Include) == 0 {
		cfg.Include = DefaultInclude
	}
	if cfg.Exclude == nil {
		cfg.Exclude = DefaultExclude
	}
	for _, pattern := range append(append([]string(nil), cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid catalog pattern %q", pattern)
		}
	}
	roots := make([]string, 0, len(cfg.Roots))
	for _, root := range cfg.Roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("catalog root %q: %w", root, err)
		}
		roots = append(roots, abs)
	}
	cfg.Roots = roots
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Catalog{cfg: cfg, log: logger}, nil
}

// ListKnownFiles scans every root and returns the matching files sorted by
// path. A root that does not exist is skipped.
func (c *Catalog) ListKnownFiles(ctx context.Context) ([]schema.FileRef, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	seen := make(map[string]bool)
	var out []schema.FileRef
	for _, root := range c.cfg.Roots {
		files, err := c.scan(ctx, root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.log.Debug("catalog root missing", "root", root)
				continue
			}
			return nil, err
		}
		for _, file := range files {
			if seen[file.Path] {
				continue
			}
			seen[file.Path] = true
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	c.log.Debug("catalog scan done", "roots", len(c.cfg.Roots), "files", len(out))
	return out, nil
}

func (c *Catalog) scan(ctx context.Context, root string) ([]schema.FileRef, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog root %s is not a directory", root)
	}
	var (
		mu    sync.Mutex
		files []schema.FileRef
	)
	conf := fastwalk.Config{Follow: c.cfg.FollowSymlinks}
	err = fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			c.log.Debug("catalog walk error", "path", p, "err", err)
			if d != nil && d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if c.prunedDir(rel) {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !c.included(rel) || c.excluded(rel) {
			return nil
		}
		if c.cfg.MaxFileBytes > 0 {
			if info, err := d.Info(); err == nil && info.Size() > c.cfg.MaxFileBytes {
				c.log.Debug("catalog file skipped", "path", p, "bytes", info.Size())
				return nil
			}
		}
		file := schema.FileRef{
			Path:        filepath.Clean(p),
			DisplayName: rel,
			Tool:        Classify(rel),
		}
		mu.Lock()
		files = append(files, file)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Catalog) included(rel string) bool {
	return matchAny(c.cfg.Include, rel)
}

func (c *Catalog) excluded(rel string) bool {
	return matchAny(c.cfg.Exclude, rel)
}

// prunedDir reports whether an exclude pattern of the form "dir/**" covers
// the whole directory.
func (c *Catalog) prunedDir(rel string) bool {
	for _, pattern := range c.cfg.Exclude {
		prefix, ok := strings.CutSuffix(pattern, "/**")
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(prefix, rel); matched {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
