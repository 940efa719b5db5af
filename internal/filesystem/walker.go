package filesystem

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/IvanShishkin/fdigest/internal/config"
	"github.com/IvanShishkin/fdigest/pkg/models"
	"go.uber.org/zap"
)

// Walker enumerates the files under a root directory
type Walker struct {
	fs      FileSystem
	logger  *zap.Logger
	exclude map[string]bool
}

// NewWalker creates a new filesystem walker
func NewWalker(cfg *config.Config, fsys FileSystem, logger *zap.Logger) *Walker {
	// Build exclude map for fast lookup
	exclude := make(map[string]bool)
	for _, dir := range cfg.Exclude {
		exclude[dir] = true
	}

	return &Walker{
		fs:      fsys,
		logger:  logger,
		exclude: exclude,
	}
}

// walkState accumulates one enumeration
type walkState struct {
	locations []models.FileLocation
	warnings  []models.Warning
}

// Enumerate lists every file under root. Each directory contributes its own
// files first, in name order, followed by its subdirectories in name order.
// Directories that cannot be listed are skipped and reported as warnings;
// only an unreadable root is an error.
func (w *Walker) Enumerate(ctx context.Context, root string) ([]models.FileLocation, []models.Warning, error) {
	// Paths below the root come out of filepath.Join cleaned; clean the root the same way
	root = filepath.Clean(root)

	entries, err := w.fs.ReadDir(root)
	if err != nil {
		return nil, nil, &models.EnumerationError{Dir: root, Err: err}
	}

	state := &walkState{}
	if err := w.walk(ctx, root, entries, state); err != nil {
		return nil, nil, err
	}

	w.logger.Debug("Enumeration finished",
		zap.String("root", root),
		zap.Int("files", len(state.locations)),
		zap.Int("warnings", len(state.warnings)))

	return state.locations, state.warnings, nil
}

// walk visits one directory whose entries are already listed
func (w *Walker) walk(ctx context.Context, dir string, entries []fs.DirEntry, state *walkState) error {
	var subdirs []string

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		switch w.classify(path, entry) {
		case entryFile:
			state.locations = append(state.locations, models.FileLocation{Dir: dir, Name: entry.Name()})
		case entryDir:
			if w.shouldExclude(entry.Name()) {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				continue
			}
			subdirs = append(subdirs, path)
		default:
			w.logger.Debug("Skipping non-regular entry", zap.String("path", path))
		}
	}

	for _, sub := range subdirs {
		children, err := w.fs.ReadDir(sub)
		if err != nil {
			enumErr := &models.EnumerationError{Dir: sub, Err: err}
			w.logger.Warn("Error listing directory", zap.String("path", sub), zap.Error(err))
			state.warnings = append(state.warnings, models.NewWarning(enumErr))
			continue // Continue walking
		}
		if err := w.walk(ctx, sub, children, state); err != nil {
			return err
		}
	}

	return nil
}

type entryKind int

const (
	entrySkip entryKind = iota
	entryFile
	entryDir
)

// classify decides how an entry is treated. Symbolic links are never followed
// into directories; a link to a file is hashed through the link and a dangling
// link is kept so the digest builder reports it. Devices, pipes and sockets
// are skipped since opening a FIFO blocks.
func (w *Walker) classify(path string, entry fs.DirEntry) entryKind {
	mode := entry.Type()
	switch {
	case mode.IsDir():
		return entryDir
	case mode.IsRegular():
		return entryFile
	case mode&fs.ModeSymlink != 0:
		stat, err := w.fs.Stat(path)
		if err != nil {
			return entryFile
		}
		if stat.Mode.IsDir() {
			w.logger.Debug("Not following directory symlink", zap.String("path", path))
			return entrySkip
		}
		if stat.Mode.IsRegular() {
			return entryFile
		}
		return entrySkip
	default:
		return entrySkip
	}
}

// shouldExclude checks if a directory name is excluded
func (w *Walker) shouldExclude(name string) bool {
	return w.exclude[name]
}
