// Package paths provides centralized path handling for devenv.
// It implements XDG Base Directory specification compliance and is the
// single place where the store layout and prefix derivation live.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/types"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for devenv
	EnvDataDir = "DEVENV_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for devenv
	EnvConfigDir = "DEVENV_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define devenv's on-disk store structure and
// are NOT user-configurable. They must remain consistent across
// installations so existing environments keep being recognized.
const (
	// DevenvDirName is the directory name for devenv-specific files
	DevenvDirName = "devenv"

	// EnvsDir holds one installation prefix per project
	EnvsDir = "envs"

	// PkgsDir is the per-prefix package store subdirectory
	PkgsDir = "pkgs"

	// ShellDir is the subdirectory for shell scripts
	ShellDir = "shell"

	// HookScriptName is the name of the shell hook script
	HookScriptName = "devenv-hook.sh"

	// LogFileName is the name of the log file
	LogFileName = "devenv.log"
)

// PrefixCategories are the top-level subtrees published from store
// entries into an installation prefix.
var PrefixCategories = []string{"bin", "sbin", "share", "lib", "libexec", "var", "etc", "ssl"}

// Paths provides centralized path management for devenv
type Paths interface {
	DataDir() string
	ConfigDir() string
	EnvsDir() string
	ShellDir() string
	HookScriptPath() string
	LogFilePath() string

	// PrefixFor derives the installation prefix for a project directory.
	// If a legacy-derived prefix already exists on disk it is returned
	// instead of the modern derivation.
	PrefixFor(projectRoot string) (types.InstallationPrefix, error)

	// ShelfPath returns the per-project store shelf for one package.
	ShelfPath(prefix types.InstallationPrefix, project string) string

	// StoreEntryPath returns the versioned store entry directory.
	StoreEntryPath(prefix types.InstallationPrefix, project, version string) string

	NormalizePath(path string) (string, error)
}

type paths struct {
	xdgData   string
	xdgConfig string
	xdgState  string
}

// New creates a new Paths instance. dataDir overrides the data
// directory when non-empty; otherwise the DEVENV_DATA_DIR env var and
// then the XDG default apply. DEVENV_CONFIG_DIR is honored the same way.
func New(dataDir string) (Paths, error) {
	p := &paths{}

	if dataDir == "" {
		dataDir = os.Getenv(EnvDataDir)
	}
	if dataDir != "" {
		p.xdgData = ExpandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, DevenvDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = ExpandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, DevenvDirName)
	}

	// XDG doesn't model StateHome everywhere, so check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, DevenvDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", DevenvDirName)
	}

	return p, nil
}

// DataDir returns the XDG data directory for devenv
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for devenv
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// EnvsDir returns the directory holding all installation prefixes
func (p *paths) EnvsDir() string {
	return filepath.Join(p.xdgData, EnvsDir)
}

// ShellDir returns the shell scripts directory
func (p *paths) ShellDir() string {
	return filepath.Join(p.xdgData, ShellDir)
}

// HookScriptPath returns the path to the devenv-hook.sh script
func (p *paths) HookScriptPath() string {
	return filepath.Join(p.ShellDir(), HookScriptName)
}

// LogFilePath returns the path to the devenv log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// PrefixFor derives the installation prefix for a project directory.
func (p *paths) PrefixFor(projectRoot string) (types.InstallationPrefix, error) {
	abs, err := p.NormalizePath(projectRoot)
	if err != nil {
		return types.InstallationPrefix{}, err
	}

	// A prefix created by older releases (base64 of the absolute path)
	// still counts as installed.
	if legacy := legacyPrefixName(abs); legacy != "" {
		legacyDir := filepath.Join(p.EnvsDir(), legacy)
		if info, err := os.Stat(legacyDir); err == nil && info.IsDir() {
			return types.InstallationPrefix{
				Hash:      legacy,
				HumanName: filepath.Base(abs),
				Dir:       legacyDir,
			}, nil
		}
	}

	hash := PathHash(abs)
	name := Slugify(filepath.Base(abs)) + "_" + hash
	return types.InstallationPrefix{
		Hash:      hash,
		HumanName: Slugify(filepath.Base(abs)),
		Dir:       filepath.Join(p.EnvsDir(), name),
	}, nil
}

// ShelfPath returns <prefix>/pkgs/<project>
func (p *paths) ShelfPath(prefix types.InstallationPrefix, project string) string {
	return filepath.Join(prefix.Dir, PkgsDir, filepath.FromSlash(project))
}

// StoreEntryPath returns <prefix>/pkgs/<project>/v<version>
func (p *paths) StoreEntryPath(prefix types.InstallationPrefix, project, version string) string {
	return filepath.Join(p.ShelfPath(prefix, project), "v"+version)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := ExpandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// Slugify reduces a directory name to a filesystem-safe slug: ASCII
// letters, digits, '-' and '_' pass through, everything else becomes '_'.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "project"
	}
	return b.String()
}
