// internal/repair/source.go
package repair

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// FileStore is the filesystem-backed SourceStore. Writes happen inside the
// patch applier, not here.
type FileStore struct {
	logger *zap.Logger
}

// NewFileStore creates a new source store.
func NewFileStore(logger *zap.Logger) *FileStore {
	return &FileStore{logger: logger.Named("source-store")}
}

// Load reads the full text of the file at path.
func (s *FileStore) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("could not find file %s: %w", path, err)
		}
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	s.logger.Debug("Loaded source file.", zap.String("path", path), zap.Int("bytes", len(data)))
	return string(data), nil
}
