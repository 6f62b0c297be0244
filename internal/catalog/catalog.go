// Package catalog enumerates and decodes the image files of a database
// directory into retrieval candidates.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/viant/cbir/pixel"
	"github.com/viant/cbir/retrieval"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions lists the image extensions picked up by default.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "ppm", "tif", "tiff", "bmp"}

// Pattern builds a glob matching file names with any of exts, ignoring case.
func Pattern(exts []string) string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	clean := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			clean = append(clean, ext)
		}
	}
	return "*.{" + strings.Join(clean, ",") + "}"
}

// List returns the paths of the regular files (or links to them) directly
// under dir whose lower-cased name matches pattern, sorted by name.
func List(dir, pattern string) ([]string, error) {
	matcher, err := glob.Compile(strings.ToLower(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var out []string
	for _, entry := range entries {
		if !matcher.Match(strings.ToLower(entry.Name())) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if isRegular(entry, path) {
			out = append(out, path)
		}
	}
	return out, nil
}

// isRegular reports whether entry is a regular file, following symlinks.
// Dangling links are not.
func isRegular(entry fs.DirEntry, path string) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Options controls Load.
type Options struct {
	// SkipDecode leaves Pixels nil, for schemes that only consult embeddings.
	SkipDecode bool
	// Workers bounds concurrent decodes; <= 0 means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Candidate describes the file at path without decoding it. Its ID is the
// file's base name, the key of the embedding table.
func Candidate(path string) retrieval.Candidate {
	return retrieval.Candidate{ID: filepath.Base(path), Path: path}
}

// Load turns paths into candidates in the same order. Files that fail to
// decode are logged and left out; their count is returned.
func Load(ctx context.Context, paths []string, opts Options) ([]retrieval.Candidate, int, error) {
	candidates := make([]retrieval.Candidate, len(paths))
	for i, path := range paths {
		candidates[i] = Candidate(path)
	}
	if opts.SkipDecode {
		return candidates, 0, nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	errs := make([]error, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			grid, err := pixel.Open(candidates[i].Path)
			if err != nil {
				errs[i] = err
				return nil
			}
			candidates[i].Pixels = grid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	out := candidates[:0]
	skipped := 0
	for i, c := range candidates {
		if errs[i] != nil {
			skipped++
			logger.Warn("skipping unreadable image", "path", c.Path, "error", errs[i])
			continue
		}
		out = append(out, c)
	}
	return out, skipped, nil
}
