// Package hostfs provides an abstraction over host file system operations to allow for easier testing.
package hostfs

import (
	"os"
)

// FileSystem abstracts the file operations used against config files and
// device nodes. Tests can replace `FS` with a fake implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
}

type defaultFS struct{}

func (defaultFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (defaultFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
func (defaultFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (defaultFS) Stat(path string) (os.FileInfo, error)        { return os.Stat(path) }

// FS is the package-level FileSystem used by code touching the host. Tests may replace it.
var FS FileSystem = defaultFS{}

// Exists reports whether a path is present on the host.
func Exists(path string) bool {
	_, err := FS.Stat(path)
	return err == nil
}
