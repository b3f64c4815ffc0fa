// Package identity derives stable clip identities used to deduplicate
// analysis work for the same logical file.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ClipIdentity is a composite key derived from a file's name, last-modified
// timestamp, and byte size. Two distinct files sharing all three collide by
// design; this is a documented limitation, not a content hash.
type ClipIdentity string

func (id ClipIdentity) String() string { return string(id) }

// Compose builds an identity from its three components.
func Compose(name string, modTime time.Time, size int64) ClipIdentity {
	return ClipIdentity(fmt.Sprintf("%s|%d|%d", name, modTime.UTC().UnixMilli(), size))
}

// FromFile stats a file and derives its identity.
func FromFile(path string) (ClipIdentity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return Compose(filepath.Base(path), info.ModTime(), info.Size()), nil
}
