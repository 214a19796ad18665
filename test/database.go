package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// TmpFile returns a fresh database file path for a single test. The
// file lives in the test's temporary directory and is cleaned up with
// it, so every test runs against its own empty database.
func TmpFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), uuid.New().String())
}
