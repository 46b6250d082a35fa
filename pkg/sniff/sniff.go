package sniff

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/logging"
	"github.com/arthur-debert/devenv/pkg/types"
)

// Partial is one handler's contribution to a sniff pass. ImplicitRuntime
// is a floor requirement applied only if nothing else in the pass asked
// for that runtime explicitly.
type Partial struct {
	Pkgs            []types.PackageRequirement
	Env             map[string]string
	ImplicitRuntime *types.PackageRequirement
}

// Context carries per-pass data handlers need: the directory being
// sniffed (the source root for {{srcroot}} interpolation) and a logger.
type Context struct {
	Dir    string
	Logger zerolog.Logger
}

// Handler inspects one recognized manifest and returns its contribution.
// For file entries content holds the file bytes; for directory entries
// content is nil.
type Handler func(ctx Context, content []byte) (Partial, error)

// Sniffer walks a directory's immediate entries and accumulates a
// ManifestSignal from every recognized manifest.
type Sniffer struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Sniffer backed by the given filesystem.
func New(fs types.FS) *Sniffer {
	return &Sniffer{
		fs:     fs,
		logger: logging.GetLogger("sniff"),
	}
}

// Sniff inspects the immediate entries of dir and returns the combined
// signal. Fails only when dir does not exist or is not a directory;
// individual manifest errors are logged and skipped.
func (s *Sniffer) Sniff(dir string) (types.ManifestSignal, error) {
	info, err := s.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return types.ManifestSignal{}, errors.Newf(errors.ErrNotADirectory, "not a directory: %s", dir)
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return types.ManifestSignal{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
	}

	ctx := Context{Dir: dir, Logger: s.logger}
	acc := newAccumulator()

	for _, entry := range entries {
		rule, ok := handlerTable[entry.Name()]
		if !ok || rule.isDir != entry.IsDir() {
			continue
		}
		if rule.skip != nil && rule.skip() {
			s.logger.Debug().Str("name", entry.Name()).Msg("Handler skipped on this platform")
			continue
		}

		var content []byte
		if !entry.IsDir() {
			path := filepath.Join(dir, entry.Name())
			content, err = s.fs.ReadFile(path)
			if err != nil {
				s.logger.Warn().Err(err).Str("file", path).Msg("Failed to read manifest, skipping")
				continue
			}
		}

		partial, err := rule.handler(ctx, content)
		if err != nil {
			// Per-file failure: this manifest contributes nothing.
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Manifest rejected")
			continue
		}

		acc.merge(partial)
		s.logger.Debug().
			Str("file", entry.Name()).
			Int("pkgs", len(partial.Pkgs)).
			Int("env", len(partial.Env)).
			Msg("Manifest recognized")
	}

	signal := acc.signal()
	s.logger.Debug().
		Str("dir", dir).
		Int("pkgs", len(signal.Pkgs)).
		Int("env", len(signal.Env)).
		Msg("Sniff pass complete")
	return signal, nil
}

// HasManifest reports whether dir contains at least one recognized
// manifest name. It never reads file contents, so it is cheap enough
// for the per-cd decision table.
func (s *Sniffer) HasManifest(dir string) bool {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if rule, ok := handlerTable[entry.Name()]; ok && rule.isDir == entry.IsDir() {
			if rule.skip != nil && rule.skip() {
				continue
			}
			return true
		}
	}
	return false
}

// accumulator collects requirement and env contributions across
// handlers. Requirements are deduplicated by project, last writer
// wins; ReadDir's lexical ordering makes the outcome deterministic.
type accumulator struct {
	reqs     map[string]types.PackageRequirement
	order    []string
	env      map[string]string
	implicit []types.PackageRequirement
}

func newAccumulator() *accumulator {
	return &accumulator{
		reqs: make(map[string]types.PackageRequirement),
		env:  make(map[string]string),
	}
}

func (a *accumulator) merge(p Partial) {
	for _, req := range p.Pkgs {
		if _, seen := a.reqs[req.Project]; !seen {
			a.order = append(a.order, req.Project)
		}
		a.reqs[req.Project] = req
	}
	for k, v := range p.Env {
		a.env[k] = v
	}
	if p.ImplicitRuntime != nil {
		a.implicit = append(a.implicit, *p.ImplicitRuntime)
	}
}

func (a *accumulator) signal() types.ManifestSignal {
	// Implicit runtime floors apply only when no handler requested the
	// runtime explicitly.
	for _, req := range a.implicit {
		if _, seen := a.reqs[req.Project]; !seen {
			a.reqs[req.Project] = req
			a.order = append(a.order, req.Project)
		}
	}

	sig := types.ManifestSignal{Env: a.env}
	for _, project := range a.order {
		sig.Pkgs = append(sig.Pkgs, a.reqs[project])
	}
	return sig
}

// Sniff runs a pass against the real filesystem.
func Sniff(dir string) (types.ManifestSignal, error) {
	return New(types.NewOSFS()).Sniff(dir)
}
