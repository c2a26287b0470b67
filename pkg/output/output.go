// Package output writes a generated prompt to its destination.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// WriteFile writes doc to path, creating missing parent directories and replacing any
// existing file.
func WriteFile(path, doc string, logger *zap.Logger) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Writing prompt to output file", zap.String("file", path))

	if err := ensureDirectory(filepath.Dir(path), logger); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			logger.Error("Failed to close output file", zap.String("file", path), zap.Error(closeErr))
			err = multierr.Append(err, fmt.Errorf("failed to close output file: %w", closeErr))
		}
	}()

	if err := Write(outFile, doc); err != nil {
		logger.Error("Failed to write output file", zap.String("file", path), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote output file", zap.String("file", path), zap.Int("bytes", len(doc)))
	return nil
}

// Write copies doc to w through a buffer.
func Write(w io.Writer, doc string) error {
	writer := bufio.NewWriter(w)
	if _, err := writer.WriteString(doc); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
