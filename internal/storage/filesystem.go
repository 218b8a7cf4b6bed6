package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxCollisions bounds stored-name regeneration. With 128-bit random
// tokens a single collision is already pathological.
const maxCollisions = 5

// filesystem implements System using the local filesystem. Files are
// stored under basePath/<category dir>/<random hex token><ext>.
type filesystem struct {
	basePath string
	logger   *slog.Logger
}

// New creates a filesystem storage system rooted at basePath. The path is
// resolved to an absolute path during construction; directory creation is
// deferred to Init.
func New(basePath string, logger *slog.Logger) (System, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path required")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base path: %w", err)
	}

	return &filesystem{
		basePath: absPath,
		logger:   logger.With("system", "storage"),
	}, nil
}

func (f *filesystem) Init(dirs ...string) error {
	if err := os.MkdirAll(f.basePath, 0o777); err != nil {
		return fmt.Errorf("create base directory: %w", err)
	}

	for _, dir := range dirs {
		path := filepath.Join(f.basePath, dir)
		if err := os.MkdirAll(path, 0o777); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}

	f.logger.Info("storage initialized", "base_path", f.basePath)
	return nil
}

func (f *filesystem) Store(ctx context.Context, tmpPath, dir, ext string) (string, string, error) {
	src, err := os.Open(tmpPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s", ErrTmpNotFound, tmpPath)
		}
		if errors.Is(err, fs.ErrPermission) {
			return "", "", fmt.Errorf("%w: %s", ErrTmpUnreadable, tmpPath)
		}
		return "", "", fmt.Errorf("open temporary file: %w", err)
	}
	defer src.Close()

	targetDir := filepath.Join(f.basePath, dir)
	if err := os.MkdirAll(targetDir, 0o777); err != nil {
		return "", "", fmt.Errorf("create directory %s: %w", targetDir, err)
	}

	dst, name, path, err := f.createTarget(targetDir, ext)
	if err != nil {
		return "", "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("copy upload to %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("flush upload to %s: %w", path, err)
	}

	if err := os.Chmod(path, 0o666); err != nil {
		f.logger.Warn("chmod stored file failed", "path", path, "error", err)
	}

	if err := os.Remove(tmpPath); err != nil {
		f.logger.Warn("temporary file cleanup failed", "path", tmpPath, "error", err)
	}

	return name, path, nil
}

func (f *filesystem) Remove(ctx context.Context, path string) error {
	cleaned := filepath.Clean(path)
	if !strings.HasPrefix(cleaned, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	if err := os.Remove(cleaned); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove stored file: %w", err)
	}
	return nil
}

// createTarget opens an exclusively-created file in dir under a fresh
// random name. On a name collision a new name is generated; on a
// permission failure the directory permissions are repaired once before
// giving up.
func (f *filesystem) createTarget(dir, ext string) (*os.File, string, string, error) {
	collisions := 0
	repaired := false

	for {
		name := randomName(ext)
		path := filepath.Join(dir, name)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
		if err == nil {
			return file, name, path, nil
		}

		if errors.Is(err, fs.ErrExist) {
			collisions++
			if collisions > maxCollisions {
				return nil, "", "", fmt.Errorf("create upload target in %s: name collisions exhausted", dir)
			}
			f.logger.Warn("stored name collision", "path", path)
			continue
		}

		if errors.Is(err, fs.ErrPermission) {
			if !repaired {
				repaired = true
				if chmodErr := os.Chmod(dir, 0o777); chmodErr == nil {
					continue
				}
			}
			return nil, "", "", fmt.Errorf("%w: %s", ErrDirNotWritable, dir)
		}

		return nil, "", "", fmt.Errorf("create %s: %w", path, err)
	}
}

// randomName generates a 128-bit hex stored name carrying ext, which
// includes its leading dot when present. Declared as a variable so tests
// can force name collisions.
var randomName = func(ext string) string {
	token := make([]byte, 16)
	rand.Read(token)
	return hex.EncodeToString(token) + ext
}
