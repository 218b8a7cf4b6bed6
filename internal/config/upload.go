package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

const (
	// EnvUploadBasePath overrides the upload storage base path.
	EnvUploadBasePath = "UPLOAD_BASE_PATH"

	// EnvUploadTmpDir overrides the directory for temporary upload buffers.
	EnvUploadTmpDir = "UPLOAD_TMP_DIR"

	// EnvUploadMaxFileSize overrides the per-file size ceiling.
	EnvUploadMaxFileSize = "UPLOAD_MAX_FILE_SIZE"
)

// UploadConfig contains upload storage and validation configuration.
// MIME allow-lists determine both which files are accepted and which
// category directory a stored file lands in.
type UploadConfig struct {
	// BasePath is the root directory for category storage.
	// Default: "uploads"
	BasePath string `toml:"base_path"`

	// TmpDir is where multipart payloads are buffered before validation.
	// Default: the system temp directory.
	TmpDir string `toml:"tmp_dir"`

	// MaxFileSize is the per-file size ceiling in binary units (e.g. "10G").
	MaxFileSize    string `toml:"max_file_size"`
	maxFileSizeVal int64

	ImageTypes    []string `toml:"image_types"`
	VideoTypes    []string `toml:"video_types"`
	DocumentTypes []string `toml:"document_types"`
}

// MaxFileSizeBytes returns the parsed per-file size ceiling in bytes.
func (c *UploadConfig) MaxFileSizeBytes() int64 {
	return c.maxFileSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the
// upload configuration.
func (c *UploadConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *UploadConfig) Merge(overlay *UploadConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.TmpDir != "" {
		c.TmpDir = overlay.TmpDir
	}
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.ImageTypes != nil {
		c.ImageTypes = overlay.ImageTypes
	}
	if overlay.VideoTypes != nil {
		c.VideoTypes = overlay.VideoTypes
	}
	if overlay.DocumentTypes != nil {
		c.DocumentTypes = overlay.DocumentTypes
	}
}

func (c *UploadConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "uploads"
	}
	if c.TmpDir == "" {
		c.TmpDir = os.TempDir()
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "10G"
	}
	if len(c.ImageTypes) == 0 {
		c.ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if len(c.VideoTypes) == 0 {
		c.VideoTypes = []string{"video/mp4", "video/mpeg", "video/quicktime"}
	}
	if len(c.DocumentTypes) == 0 {
		c.DocumentTypes = []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
			"text/plain",
			"text/csv",
			"application/rtf",
			"application/vnd.oasis.opendocument.text",
			"application/vnd.oasis.opendocument.spreadsheet",
			"application/vnd.oasis.opendocument.presentation",
		}
	}
}

func (c *UploadConfig) loadEnv() {
	if v := os.Getenv(EnvUploadBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvUploadTmpDir); v != "" {
		c.TmpDir = v
	}
	if v := os.Getenv(EnvUploadMaxFileSize); v != "" {
		c.MaxFileSize = v
	}
}

func (c *UploadConfig) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.RAMInBytes(c.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	c.maxFileSizeVal = size

	return nil
}
