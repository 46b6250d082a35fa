package store

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/devenv/pkg/errors"
)

// mirrorTree recreates src under dst: directories are recreated,
// regular files hard-linked, symlinks recreated with the same target.
// Hard links keep the store cheap; when linking fails (cross-device
// stores, or filesystems that forbid links) the file is copied with
// its mode preserved instead.
func (i *Installer) mirrorTree(src, dst string) error {
	if err := i.fs.MkdirAll(dst, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dst)
	}

	entries, err := i.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			if err := i.mirrorTree(srcPath, dstPath); err != nil {
				return err
			}

		case entry.Type()&fs.ModeSymlink != 0:
			target, err := i.fs.Readlink(srcPath)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to read symlink %s", srcPath)
			}
			if err := i.fs.Symlink(target, dstPath); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to recreate symlink %s", dstPath)
			}

		case entry.Type().IsRegular():
			if err := i.fs.Link(srcPath, dstPath); err != nil {
				if copyErr := i.copyFile(srcPath, dstPath, entry); copyErr != nil {
					return errors.Wrapf(copyErr, errors.ErrHardLink, "failed to link or copy %s", srcPath)
				}
				i.logger.Debug().Str("file", srcPath).Msg("Hard link failed, copied instead")
			}

		default:
			// Sockets, devices etc. have no business in a package tree.
			i.logger.Debug().Str("file", srcPath).Msg("Skipping irregular file")
		}
	}

	return nil
}

// copyFile is the cross-filesystem fallback for hard linking.
func (i *Installer) copyFile(src, dst string, entry fs.DirEntry) error {
	data, err := i.fs.ReadFile(src)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0644)
	if info, err := entry.Info(); err == nil {
		mode = info.Mode().Perm()
	}
	return i.fs.WriteFile(dst, data, mode)
}

// hasBinaries reports whether the store entry's bin or sbin directory
// contains at least one entry. A mirrored package with neither is a
// corrupt or incompatible resolver result.
func (i *Installer) hasBinaries(entryPath string) bool {
	for _, dir := range []string{"bin", "sbin"} {
		entries, err := i.fs.ReadDir(filepath.Join(entryPath, dir))
		if err == nil && len(entries) > 0 {
			return true
		}
	}
	return false
}
