package store

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/devenv/pkg/paths"
	"github.com/arthur-debert/devenv/pkg/types"
)

// publish symlinks every leaf file of the store entry's public
// categories into the matching category under the prefix, replacing
// whatever was there. Publish failures are logged and skipped: for
// binaries the stub overwrite is what actually matters, and for the
// rest a missing share file is not worth failing the package over.
func (i *Installer) publish(entryPath string, prefix types.InstallationPrefix) {
	for _, category := range paths.PrefixCategories {
		src := filepath.Join(entryPath, category)
		if info, err := i.fs.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		i.publishDir(src, filepath.Join(prefix.Dir, category))
	}
}

func (i *Installer) publishDir(src, dst string) {
	entries, err := i.fs.ReadDir(src)
	if err != nil {
		i.logger.Warn().Err(err).Str("dir", src).Msg("Failed to list category for publishing")
		return
	}

	if err := i.fs.MkdirAll(dst, 0755); err != nil {
		i.logger.Warn().Err(err).Str("dir", dst).Msg("Failed to create category under prefix")
		return
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			i.publishDir(srcPath, dstPath)
			continue
		}

		if err := i.replaceWithSymlink(srcPath, dstPath); err != nil {
			i.logger.Warn().Err(err).Str("target", dstPath).Msg("Failed to publish file")
		}
	}
}

// replaceWithSymlink points dstPath at srcPath, removing any existing
// file or symlink first.
func (i *Installer) replaceWithSymlink(srcPath, dstPath string) error {
	if _, err := i.fs.Lstat(dstPath); err == nil {
		if err := i.fs.Remove(dstPath); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return i.fs.Symlink(srcPath, dstPath)
}

// binEntries lists the top-level stub candidates of one bin/sbin dir.
func (i *Installer) binEntries(dir string) []fs.DirEntry {
	entries, err := i.fs.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []fs.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() {
			out = append(out, entry)
		}
	}
	return out
}
