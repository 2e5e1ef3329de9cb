package patcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/workspace-patcher/internal/config"
	"github.com/oshokin/workspace-patcher/internal/domain/workspace"
	"github.com/oshokin/workspace-patcher/internal/logger"
	"github.com/oshokin/workspace-patcher/internal/repository/files"
	"github.com/oshokin/workspace-patcher/internal/repository/lines"
	"github.com/oshokin/workspace-patcher/internal/repository/manifest"
)

// Step names as they appear in the Report.
const (
	StepManifest  = "manifest"
	StepToolchain = "toolchain"
	StepAppConfig = "app-config"
	StepBuildFile = "build-file"
)

// Line prefixes selecting the lines to replace.
const (
	channelPrefix   = "channel"
	rustPrefix      = "rust ="
	baseImagePrefix = "FROM rust:"
)

const dryRunPrefix = "[dry-run] "

var (
	// errAlreadyRunning is returned when another patcher process is active.
	errAlreadyRunning = errors.New("another workspace-patcher instance is running")
	// errRootNotDirectory is returned when the repository root is not a directory.
	errRootNotDirectory = errors.New("repository root is not a directory")
)

// Options are inputs accepted by the patcher entry point.
type Options struct {
	// RootDir is the repository checkout to patch. Defaults to the working directory.
	RootDir string
	// ConfigPath is an optional settings file. When empty, workspace-patcher.yaml
	// in RootDir is used if it exists.
	ConfigPath string
	// Version overrides the version read from the environment.
	Version string
	// AtomicWrites forces rename-based writes regardless of the settings file.
	AtomicWrites bool
	// DryRun computes every change without writing files.
	DryRun bool
	// Stdout receives one confirmation line per completed step. Defaults to os.Stdout.
	Stdout io.Writer
	// Lookup resolves environment variables. Defaults to the process
	// environment backed by RootDir/.env.
	Lookup config.LookupFunc
	// SkipInstanceCheck disables the running-instance guard.
	SkipInstanceCheck bool
}

// runner holds the state of a single patching run.
// It is unexported; call Run(ctx, Options).
type runner struct {
	cfg     *config.Config
	root    string
	version string
	dryRun  bool
	writer  files.Writer
	stdout  io.Writer
	report  *Report
}

// Run patches the repository and returns what each step did.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	ctx = logger.WithName(ctx, "workspace-patcher")

	if opts == nil {
		opts = new(Options)
	}

	if !opts.SkipInstanceCheck && isAnotherInstanceRunning(ctx, ps.Processes) {
		return nil, errAlreadyRunning
	}

	r, err := newRunner(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("initialize patcher: %w", err)
	}

	if err = r.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Patching failed", "error", err)
		return r.report, err
	}

	logger.InfoKV(ctx, "Patching completed", "version", r.version, "dry_run", r.dryRun)

	return r.report, nil
}

// newRunner resolves the root, settings and version for a run.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	root, err := resolveRoot(opts.RootDir)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(root, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup, err = config.EnvLookup(filepath.Join(root, config.DefaultEnvFilename))
		if err != nil {
			return nil, err
		}
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	ver := cfg.ResolveVersion(opts.Version, lookup)
	atomic := opts.AtomicWrites || cfg.AtomicWrites

	logger.InfoKV(ctx, "Resolved settings",
		"root", root,
		"version", ver,
		"atomic_writes", atomic,
		"dry_run", opts.DryRun,
	)

	return &runner{
		cfg:     cfg,
		root:    root,
		version: ver,
		dryRun:  opts.DryRun,
		writer:  files.NewWriter(atomic, opts.DryRun),
		stdout:  stdout,
		report: &Report{
			Version: ver,
			DryRun:  opts.DryRun,
		},
	}, nil
}

// Run executes the four steps in order and stops at the first error.
func (r *runner) Run(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(ctx context.Context) (StepResult, error)
	}{
		{StepManifest, r.patchManifest},
		{StepToolchain, r.patchToolchain},
		{StepAppConfig, r.patchAppConfig},
		{StepBuildFile, r.patchBuildFile},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := step.run(logger.WithKV(ctx, "step", step.name))
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}

		r.report.Steps = append(r.report.Steps, result)
	}

	return nil
}

// patchManifest adds the configured members to workspace.members.
func (r *runner) patchManifest(ctx context.Context) (StepResult, error) {
	result := StepResult{
		Name: StepManifest,
		Path: r.path(r.cfg.ManifestPath),
	}

	repo := manifest.NewFileRepository(result.Path, r.writer)

	m, err := repo.Load()
	if err != nil {
		return result, err
	}

	existing, err := m.Members()
	if err != nil {
		return result, fmt.Errorf("%s: %w", result.Path, err)
	}

	members := workspace.NewMemberSet(existing...)
	before := members.Len()

	members.Add(r.cfg.Members...)

	if err = m.SetMembers(members.Sorted()); err != nil {
		return result, err
	}

	if err = repo.Save(m); err != nil {
		return result, err
	}

	result.Status = StatusPatched
	result.Changed = members.Len() - before

	logger.DebugKV(ctx, "Workspace members written", "members", members.Sorted())
	r.confirm("Updated workspace members in %s", r.cfg.ManifestPath)

	return result, nil
}

// patchToolchain pins the rustup channel.
func (r *runner) patchToolchain(ctx context.Context) (StepResult, error) {
	result, err := r.rewriteOptional(ctx, StepToolchain, r.cfg.ToolchainPath,
		lines.Rule{Prefix: channelPrefix, Replacement: channelPrefix + ` = "` + r.version + `"`},
	)
	if err == nil && result.Status == StatusPatched {
		r.confirm("Updated %s channel to %s", r.cfg.ToolchainPath, r.version)
	}

	return result, err
}

// patchAppConfig sets the rust tool version of the mise config.
func (r *runner) patchAppConfig(ctx context.Context) (StepResult, error) {
	result, err := r.rewriteOptional(ctx, StepAppConfig, r.cfg.AppConfigPath,
		lines.Rule{Prefix: rustPrefix, Replacement: rustPrefix + ` "` + r.version + `"`},
	)
	if err == nil && result.Status == StatusPatched {
		r.confirm("Updated %s rust version to %s", r.cfg.AppConfigPath, r.version)
	}

	return result, err
}

// patchBuildFile sets the Dockerfile base image and install command.
func (r *runner) patchBuildFile(ctx context.Context) (StepResult, error) {
	result, err := r.rewriteOptional(ctx, StepBuildFile, r.cfg.BuildFilePath,
		lines.Rule{Prefix: baseImagePrefix, Replacement: baseImagePrefix + r.version + " as build"},
		lines.Rule{Prefix: r.cfg.InstallPrefix, Replacement: r.cfg.InstallCommand},
	)
	if err == nil && result.Status == StatusPatched {
		r.confirm("Updated %s base image to rust:%s", r.cfg.BuildFilePath, r.version)
	}

	return result, err
}

// rewriteOptional applies rules to relPath when it exists and skips it otherwise.
func (r *runner) rewriteOptional(
	ctx context.Context,
	name, relPath string,
	rules ...lines.Rule,
) (StepResult, error) {
	result := StepResult{
		Name: name,
		Path: r.path(relPath),
	}

	exists, err := files.Exists(result.Path)
	if err != nil {
		return result, err
	}

	if !exists {
		logger.InfoKV(ctx, "File not found, skipping", "path", result.Path)

		result.Status = StatusSkipped

		return result, nil
	}

	replaced, err := lines.NewFileRepository(result.Path, r.writer).Rewrite(rules...)
	if err != nil {
		return result, err
	}

	logger.DebugKV(ctx, "File rewritten", "path", result.Path, "replaced_lines", replaced)

	result.Status = StatusPatched
	result.Changed = replaced

	return result, nil
}

// confirm prints one confirmation line for a completed step.
func (r *runner) confirm(format string, args ...any) {
	prefix := ""
	if r.dryRun {
		prefix = dryRunPrefix
	}

	_, _ = fmt.Fprintln(r.stdout, prefix+fmt.Sprintf(format, args...))
}

func (r *runner) path(relPath string) string {
	return filepath.Join(r.root, filepath.FromSlash(relPath))
}

// resolveRoot makes root absolute and checks it is a directory.
func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat root: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", abs, errRootNotDirectory)
	}

	return abs, nil
}

// loadConfig reads an explicit settings file, or the optional one in root.
func loadConfig(root, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	return config.LoadOrDefault(filepath.Join(root, config.DefaultConfigFilename))
}
