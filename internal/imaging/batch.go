package imaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// DefaultThumbnailLongSide is the long side used for folder thumbnail lists.
const DefaultThumbnailLongSide = 100

// ThumbnailResult is the outcome of one file in a thumbnail batch. Exactly
// one of Buffer and Err is set.
type ThumbnailResult struct {
	Path   string
	Kind   MediaKind
	Buffer *ImageBuffer
	Err    error
}

// BatchOptions configures GenerateThumbnails.
type BatchOptions struct {
	// LongSide is the thumbnail long side. Zero selects
	// DefaultThumbnailLongSide.
	LongSide int

	// Workers bounds the number of files decoded at once. Zero or negative
	// means one.
	Workers int

	// NewSession creates the session used for one file. Nil selects
	// NewSession with default options.
	NewSession func() *Session
}

// GenerateThumbnails decodes a thumbnail for every supported file directly in
// dir, in name order.
//
// Each file gets its own Session, so files are decoded in parallel without
// sharing any state. A file that fails to decode is reported in its result and
// does not stop the batch; only a cancelled context or an unreadable
// directory aborts it.
func GenerateThumbnails(ctx context.Context, dir string, opts BatchOptions) ([]ThumbnailResult, error) {
	if opts.LongSide <= 0 {
		opts.LongSide = DefaultThumbnailLongSide
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.NewSession == nil {
		opts.NewSession = func() *Session { return NewSession() }
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read directory: %w", ErrOpen, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ClassifyPath(e.Name()) == MediaUnsupported {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	results := make([]ThumbnailResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = thumbnailFor(opts.NewSession(), path, opts.LongSide)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func thumbnailFor(s *Session, path string, longSide int) ThumbnailResult {
	res := ThumbnailResult{Path: path, Kind: ClassifyPath(path)}

	if _, err := s.Describe(path, SettingsForPath(path, true, longSide)); err != nil {
		res.Err = err
		return res
	}

	var buf ImageBuffer
	if err := s.FetchThumbnail(&buf); err != nil {
		res.Err = err
		return res
	}
	res.Buffer = &buf
	return res
}
