// Package storage is the opaque blob store for uploaded compliance
// documents. The rest of the system only ever handles the returned
// reference string, never file contents.
package storage

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DocumentStore persists an uploaded document and returns a stable
// reference for it.
type DocumentStore interface {
	Put(data []byte, originalExt string) (string, error)
}

// DiskStore writes documents under a base directory. References look like
// "certs/<32 hex chars><ext>" so the original filename never leaks.
type DiskStore struct {
	BaseDir string
}

func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "certs"), 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{BaseDir: baseDir}, nil
}

func (s *DiskStore) Put(data []byte, originalExt string) (string, error) {
	ext := strings.ToLower(originalExt)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	id := uuid.New()
	ref := filepath.Join("certs", hex.EncodeToString(id[:])+ext)

	if err := os.WriteFile(filepath.Join(s.BaseDir, ref), data, 0o644); err != nil {
		return "", err
	}
	return ref, nil
}
