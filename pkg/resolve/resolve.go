// Package resolve is the client side of the resolution boundary: it
// batches requirement specs into a single query against the external
// resolver process and normalizes the answer. devenv never resolves
// version constraints itself.
package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/devenv/pkg/config"
	"github.com/arthur-debert/devenv/pkg/errors"
	"github.com/arthur-debert/devenv/pkg/logging"
	"github.com/arthur-debert/devenv/pkg/types"
)

// Failure is one unresolved requirement. Collected, never thrown: a
// batch only fails as a whole when the resolver itself is unreachable.
type Failure struct {
	Project    string
	Err        error
	Suggestion string
}

// Result is a normalized resolver response.
type Result struct {
	Pkgs []types.ResolvedPackage

	// Env is the batch-level environment; values are kept as lists so
	// the stub generator can join or prepend them correctly.
	Env map[string][]string

	Failed []Failure
}

// Client invokes the external resolver.
type Client struct {
	command string
	args    []string
	timeout time.Duration
	logger  zerolog.Logger

	// runner is swapped in tests; defaults to running the real command.
	runner func(ctx context.Context, command string, args []string) ([]byte, error)
}

// NewClient builds a Client from resolver configuration.
func NewClient(cfg config.ResolverConfig) *Client {
	return &Client{
		command: cfg.Command,
		args:    cfg.Args,
		timeout: cfg.Timeout,
		logger:  logging.GetLogger("resolve"),
		runner:  runCommand,
	}
}

// wire format of the resolver response
type wireResponse struct {
	Pkgs []struct {
		Path    string `json:"path"`
		Project string `json:"project"`
		Version string `json:"version"`
	} `json:"pkgs"`
	RuntimeEnv map[string]map[string]string `json:"runtime_env"`
	Env        map[string]interface{}       `json:"env"`
}

// Resolve sends one batched query for all requirements and collects
// per-package outcomes. Fails with ResolverUnavailable when the
// resolver command cannot be located or the query itself dies.
func (c *Client) Resolve(ctx context.Context, reqs []types.PackageRequirement) (*Result, error) {
	if len(reqs) == 0 {
		return &Result{}, nil
	}

	if _, err := exec.LookPath(c.command); err != nil {
		return nil, errors.Wrapf(err, errors.ErrResolverUnavailable, "resolver %q not found", c.command)
	}

	// Sorted specs keep the resolver invocation deterministic whatever
	// order the manifests were read in.
	reqs = append([]types.PackageRequirement{}, reqs...)
	types.SortRequirements(reqs)

	args := append([]string{}, c.args...)
	for _, req := range reqs {
		args = append(args, "+"+req.Spec())
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug().Str("command", c.command).Strs("args", args).Msg("Querying resolver")
	out, err := c.runner(ctx, c.command, args)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrResolverUnavailable, "resolver query failed")
	}

	var resp wireResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrResolverProtocol, "malformed resolver response")
	}

	result := &Result{Env: normalizeEnv(resp.Env)}
	resolved := make(map[string]bool, len(resp.Pkgs))

	for _, pkg := range resp.Pkgs {
		version, err := semver.NewVersion(pkg.Version)
		if err != nil {
			result.Failed = append(result.Failed, Failure{
				Project: pkg.Project,
				Err:     errors.Wrapf(err, errors.ErrResolverProtocol, "bad version %q for %s", pkg.Version, pkg.Project),
			})
			continue
		}
		resolved[pkg.Project] = true
		result.Pkgs = append(result.Pkgs, types.ResolvedPackage{
			Project:    pkg.Project,
			Version:    version,
			SourcePath: pkg.Path,
			RuntimeEnv: resp.RuntimeEnv[pkg.Project],
		})
	}

	// Requested projects the resolver stayed silent about.
	for _, req := range reqs {
		if resolved[req.Project] {
			continue
		}
		if containsFailure(result.Failed, req.Project) {
			continue
		}
		result.Failed = append(result.Failed, Failure{
			Project:    req.Project,
			Err:        errors.Newf(errors.ErrResolutionFailed, "no package found for %s", req.Spec()),
			Suggestion: SuggestProject(req.Project),
		})
	}

	c.logger.Info().
		Int("resolved", len(result.Pkgs)).
		Int("failed", len(result.Failed)).
		Msg("Resolution complete")
	return result, nil
}

func containsFailure(failed []Failure, project string) bool {
	for _, f := range failed {
		if f.Project == project {
			return true
		}
	}
	return false
}

// normalizeEnv converts wire env values (scalar or list) into lists.
func normalizeEnv(raw map[string]interface{}) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	env := make(map[string][]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case []interface{}:
			var parts []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				}
			}
			env[name] = parts
		case string:
			env[name] = []string{v}
		}
	}
	return env
}

func runCommand(ctx context.Context, command string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}
