package prompt

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"promptmaker/pkg/filter"
	"promptmaker/pkg/language"

	"go.uber.org/zap"
)

// ResolveRoot returns the absolute, symlink-free form of dir after checking that it is
// an existing directory.
func ResolveRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, dir, err)
	}
	resolved, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, resolved)
	}
	return resolved, nil
}

// CollectFiles walks root and returns the regular, non-hidden files accepted by f,
// sorted by relative path.
func CollectFiles(root string, f *filter.Filter, logger *zap.Logger) ([]FileCandidate, error) {
	var files []FileCandidate
	logger.Debug("Starting file traversal and collection", zap.String("root", root), zap.Stringer("mode", f.Mode()))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			if filter.IsHidden(d.Name()) {
				logger.Debug("Skipping hidden directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			logger.Debug("Skipping non-regular file", zap.String("path", path), zap.Stringer("type", d.Type()))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			logger.Warn("Unable to determine relative path", zap.String("path", path), zap.Error(err))
			return nil
		}
		rel = filepath.ToSlash(rel)

		if filter.IsHidden(rel) || !f.Includes(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("Failed to get file info during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}

		files = append(files, FileCandidate{
			AbsPath:  path,
			RelPath:  rel,
			Size:     info.Size(),
			Language: language.ForPath(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	logger.Debug("Completed file traversal and collection", zap.Int("files", len(files)))
	return files, nil
}
