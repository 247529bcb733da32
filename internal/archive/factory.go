// Package archive stores run artifacts (snapshot JSON and unit SQL files)
// durably, so a load can be retried or audited without re-running fetch and
// transform. Backends: memory (tests), filesystem, and S3.
package archive

import (
	"fmt"

	"wpmigrate/internal/config"
	"wpmigrate/internal/pipeline"
)

// NewArchiveFromConfig creates an Archive implementation based on the archive
// config type.
func NewArchiveFromConfig(cfg config.ArchiveConfig) (pipeline.Archive, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryArchive(cfg.Name), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem archive requires fs_root to be set")
		}
		return NewFileSystemArchive(cfg.Name, cfg.FSRoot)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 archive requires s3_bucket to be set")
		}
		return NewS3Archive(cfg)
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
}
