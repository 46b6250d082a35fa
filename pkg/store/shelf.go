package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/paths"
	"github.com/arthur-debert/devenv/pkg/types"
)

// reservedShelfNames are shelf entries the alias maintainer never
// considers version candidates.
var reservedShelfNames = map[string]bool{"var": true}

// RefreshMajorAliases recomputes the v<MAJOR> alias symlinks of one
// store shelf. Each alias points at the greatest installed version of
// that major line under full semver ordering (pre-release and build
// metadata included). Existing alias symlinks are overwritten;
// anything that is not a symlink is left alone.
func RefreshMajorAliases(filesystem types.FS, shelf string) error {
	entries, err := filesystem.ReadDir(shelf)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to list shelf %s", shelf)
	}

	best := make(map[uint64]struct {
		version *semver.Version
		dir     string
	})

	for _, entry := range entries {
		if !entry.IsDir() || entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if reservedShelfNames[entry.Name()] {
			continue
		}
		version, ok := parseVersionDir(entry.Name())
		if !ok {
			continue
		}
		if cur, exists := best[version.Major()]; !exists || version.GreaterThan(cur.version) {
			best[version.Major()] = struct {
				version *semver.Version
				dir     string
			}{version, entry.Name()}
		}
	}

	for major, winner := range best {
		aliasPath := filepath.Join(shelf, fmt.Sprintf("v%d", major))

		if info, err := filesystem.Lstat(aliasPath); err == nil {
			if info.Mode()&fs.ModeSymlink == 0 {
				// A real directory squatting on the alias name: not ours to touch.
				continue
			}
			if err := filesystem.Remove(aliasPath); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to replace alias %s", aliasPath)
			}
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect alias %s", aliasPath)
		}

		// Relative target keeps the shelf relocatable.
		if err := filesystem.Symlink(winner.dir, aliasPath); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create alias %s", aliasPath)
		}
	}

	return nil
}

// ShelfStatus describes one store shelf: the project it belongs to,
// the command it provides, the versions installed, and the major
// aliases currently published.
type ShelfStatus struct {
	Project  string
	Command  string
	Versions []string
	Aliases  map[string]string
}

// Shelves walks the package store under a prefix and reports every
// shelf holding at least one installed version. The walk recurses, so
// nested projects like astral.sh/uv are found. A missing store yields
// an empty list.
func Shelves(filesystem types.FS, prefix types.InstallationPrefix) ([]ShelfStatus, error) {
	root := filepath.Join(prefix.Dir, paths.PkgsDir)

	var shelves []ShelfStatus
	if err := collectShelves(filesystem, root, "", &shelves); err != nil {
		return nil, err
	}
	sort.Slice(shelves, func(a, b int) bool {
		return shelves[a].Project < shelves[b].Project
	})
	return shelves, nil
}

func collectShelves(filesystem types.FS, dir, project string, out *[]ShelfStatus) error {
	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		if project == "" && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
	}

	status := ShelfStatus{Project: project}
	var versions []*semver.Version

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)

		if entry.Type()&fs.ModeSymlink != 0 {
			if !isAliasName(name) {
				continue
			}
			target, err := filesystem.Readlink(full)
			if err != nil {
				continue
			}
			if status.Aliases == nil {
				status.Aliases = make(map[string]string)
			}
			status.Aliases[name] = target
			continue
		}
		if !entry.IsDir() || reservedShelfNames[name] {
			continue
		}
		if version, ok := parseVersionDir(name); ok {
			versions = append(versions, version)
			continue
		}

		child := name
		if project != "" {
			child = project + "/" + name
		}
		if err := collectShelves(filesystem, full, child, out); err != nil {
			return err
		}
	}

	if len(versions) > 0 {
		sort.Sort(semver.Collection(versions))
		for _, v := range versions {
			status.Versions = append(status.Versions, v.Original())
		}
		status.Command = CommandName(project)
		*out = append(*out, status)
	}
	return nil
}

// isAliasName reports whether a shelf entry name is in the v<MAJOR>
// alias namespace.
func isAliasName(name string) bool {
	return strings.HasPrefix(name, "v") &&
		startsWithDigit(strings.TrimPrefix(name, "v")) &&
		!strings.Contains(name, ".")
}

// parseVersionDir parses a shelf directory name like "v1.2.3" or
// "1.2.3" as a semantic version. Bare-major names like "v1" are the
// alias namespace, not version candidates.
func parseVersionDir(name string) (*semver.Version, bool) {
	trimmed := strings.TrimPrefix(name, "v")
	if !startsWithDigit(trimmed) || !strings.Contains(trimmed, ".") {
		return nil, false
	}
	version, err := semver.NewVersion(trimmed)
	if err != nil {
		return nil, false
	}
	return version, true
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
