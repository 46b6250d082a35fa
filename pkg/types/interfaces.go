package types

import (
	"io/fs"
	"os"
)

// FS abstracts filesystem operations for testability
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Link operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Link(oldname, newname string) error

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}

// osFS is the production FS backed by the os package.
type osFS struct{}

// NewOSFS returns an FS that operates on the real filesystem.
func NewOSFS() FS { return osFS{} }

func (osFS) Stat(name string) (fs.FileInfo, error)  { return os.Stat(name) }
func (osFS) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(name) }
func (osFS) ReadFile(name string) ([]byte, error)   { return os.ReadFile(name) }
func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
func (osFS) ReadDir(name string) ([]fs.DirEntry, error)    { return os.ReadDir(name) }
func (osFS) MkdirAll(path string, perm fs.FileMode) error  { return os.MkdirAll(path, perm) }
func (osFS) Symlink(oldname, newname string) error         { return os.Symlink(oldname, newname) }
func (osFS) Readlink(name string) (string, error)          { return os.Readlink(name) }
func (osFS) Link(oldname, newname string) error            { return os.Link(oldname, newname) }
func (osFS) Remove(name string) error                      { return os.Remove(name) }
func (osFS) RemoveAll(path string) error                   { return os.RemoveAll(path) }
