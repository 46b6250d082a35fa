package store

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/logging"
	"github.com/arthur-debert/devenv/pkg/paths"
	"github.com/arthur-debert/devenv/pkg/types"
)

// PackageFailure reports one package that could not be installed.
type PackageFailure struct {
	Project    string
	Err        error
	Suggestion string
}

// Result summarizes one install batch.
type Result struct {
	Successful []string
	Failed     []PackageFailure
}

// Installer mirrors resolved packages into the store and publishes
// them into the installation prefix.
type Installer struct {
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger
}

// NewInstaller creates an Installer.
func NewInstaller(fs types.FS, p paths.Paths) *Installer {
	return &Installer{
		fs:     fs,
		paths:  p,
		logger: logging.GetLogger("store"),
	}
}

// Install materializes each resolved package into the prefix's store
// and publishes it, in order. batchEnv is the resolver's batch-level
// environment, baked into every generated stub alongside the package's
// own runtime environment. A single package failure is recorded and
// the batch continues; the returned error is non-nil only when not a
// single package succeeded.
func (i *Installer) Install(resolved []types.ResolvedPackage, prefix types.InstallationPrefix, batchEnv map[string][]string) (*Result, error) {
	result := &Result{}

	for _, pkg := range resolved {
		if err := i.installOne(pkg, prefix, batchEnv); err != nil {
			i.logger.Warn().Err(err).Str("project", pkg.Project).Msg("Package install failed")
			result.Failed = append(result.Failed, PackageFailure{Project: pkg.Project, Err: err})
			continue
		}
		result.Successful = append(result.Successful, pkg.Project)
		i.logger.Info().
			Str("project", pkg.Project).
			Str("version", pkg.Version.String()).
			Msg("Package installed")
	}

	if len(resolved) > 0 && len(result.Successful) == 0 {
		return result, errors.Newf(errors.ErrInstallEmpty, "no packages could be installed into %s", prefix.Dir)
	}
	return result, nil
}

// installOne runs the four install steps for a single package:
// store-entry reset, mirror, publish, stub overwrite.
func (i *Installer) installOne(pkg types.ResolvedPackage, prefix types.InstallationPrefix, batchEnv map[string][]string) error {
	entryPath := i.StoreEntryFor(prefix, pkg).StorePath

	// Reinstalls are wholesale: never patch a store entry in place.
	if err := i.fs.RemoveAll(entryPath); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to clear store entry %s", entryPath)
	}

	if err := i.mirrorTree(pkg.SourcePath, entryPath); err != nil {
		return err
	}

	if !i.hasBinaries(entryPath) {
		return errors.Newf(errors.ErrMirrorCorrupt, "%s@%s has no binaries after mirroring", pkg.Project, pkg.Version)
	}

	if err := RefreshMajorAliases(i.fs, i.paths.ShelfPath(prefix, pkg.Project)); err != nil {
		// Alias maintenance is cosmetic next to a working install.
		i.logger.Warn().Err(err).Str("project", pkg.Project).Msg("Failed to refresh version aliases")
	}

	i.publish(entryPath, prefix)

	if err := i.generateStubs(pkg, entryPath, prefix, batchEnv); err != nil {
		return errors.Wrapf(err, errors.ErrStubGeneration, "stub generation failed for %s", pkg.Project)
	}

	return nil
}

// StoreEntryFor reports the store entry for a project/version pair.
func (i *Installer) StoreEntryFor(prefix types.InstallationPrefix, pkg types.ResolvedPackage) types.StoreEntry {
	return types.StoreEntry{
		Project:   pkg.Project,
		Version:   pkg.Version,
		StorePath: i.paths.StoreEntryPath(prefix, pkg.Project, pkg.Version.String()),
	}
}

// PrefixPopulated reports whether the prefix already has published
// binaries, which is the activation fast path's trigger.
func PrefixPopulated(fs types.FS, prefix types.InstallationPrefix) bool {
	for _, dir := range []string{"bin", "sbin"} {
		entries, err := fs.ReadDir(filepath.Join(prefix.Dir, dir))
		if err == nil && len(entries) > 0 {
			return true
		}
	}
	return false
}
