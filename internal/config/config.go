package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes which files the patcher touches and what it writes into them.
// Every path is relative to the repository root passed on the command line.
type Config struct {
	// ManifestPath is the Cargo workspace manifest. It must exist.
	ManifestPath string `yaml:"manifest_path"`
	// ToolchainPath is the rustup toolchain pin file.
	ToolchainPath string `yaml:"toolchain_path"`
	// AppConfigPath is the tool-version config holding a `rust = "..."` line.
	AppConfigPath string `yaml:"app_config_path"`
	// BuildFilePath is the Dockerfile that builds the router image.
	BuildFilePath string `yaml:"build_file_path"`
	// Members are added to workspace.members of the manifest.
	Members []string `yaml:"members"`
	// InstallPrefix selects the Dockerfile line replaced by InstallCommand.
	InstallPrefix string `yaml:"install_prefix"`
	// InstallCommand is written verbatim in place of the install line.
	InstallCommand string `yaml:"install_command"`
	// VersionEnv names the environment variable holding the toolchain version.
	VersionEnv string `yaml:"version_env"`
	// DefaultVersion is used when VersionEnv is unset or empty.
	DefaultVersion string `yaml:"default_version"`
	// AtomicWrites replaces files through a temporary sibling instead of overwriting in place.
	AtomicWrites bool `yaml:"atomic_writes"`
}

const (
	// DefaultConfigFilename is the optional settings file looked up when --config is not given.
	DefaultConfigFilename = "workspace-patcher.yaml"

	// DefaultEnvFilename is read from the repository root for variables missing from the environment.
	DefaultEnvFilename = ".env"

	// DefaultManifestPath is the workspace manifest.
	DefaultManifestPath = "Cargo.toml"

	// DefaultToolchainPath is the toolchain pin file.
	DefaultToolchainPath = "rust-toolchain.toml"

	// DefaultAppConfigPath is the mise tool config.
	DefaultAppConfigPath = ".config/mise/config.toml"

	// DefaultBuildFilePath is the repository Dockerfile.
	DefaultBuildFilePath = "dockerfiles/diy/dockerfiles/Dockerfile.repo"

	// DefaultInstallPrefix matches the cargo install line of the Dockerfile.
	DefaultInstallPrefix = "RUN cargo install --path"

	// DefaultInstallCommand installs the router from its nested crate.
	DefaultInstallCommand = "RUN cargo install --path crates/apollo-router"

	// DefaultVersionEnv is the environment variable carrying the toolchain version.
	DefaultVersionEnv = "RUST_VERSION"

	// DefaultVersion is used when no version is supplied.
	DefaultVersion = "latest"

	// DefaultFilePermissions is used when the settings file is created.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAbsolutePath is returned for a path that is not repository-relative.
	errAbsolutePath = errors.New("absolute path is not allowed")
	// errEscapingPath is returned for a path leaving the repository root.
	errEscapingPath = errors.New("path must not escape the repository root")
	// errEmptyMember is returned for a blank workspace member.
	errEmptyMember = errors.New("workspace member must not be empty")
)

// DefaultMembers returns the crates registered in every patched workspace.
func DefaultMembers() []string {
	return []string{
		"crates/apollo-router",
		"crates/apollo-router-core",
	}
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := new(Config)

	// Defaults never fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks every path stays inside the root.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	setDefault(&cfg.ManifestPath, DefaultManifestPath)
	setDefault(&cfg.ToolchainPath, DefaultToolchainPath)
	setDefault(&cfg.AppConfigPath, DefaultAppConfigPath)
	setDefault(&cfg.BuildFilePath, DefaultBuildFilePath)
	setDefault(&cfg.InstallPrefix, DefaultInstallPrefix)
	setDefault(&cfg.InstallCommand, DefaultInstallCommand)
	setDefault(&cfg.VersionEnv, DefaultVersionEnv)
	setDefault(&cfg.DefaultVersion, DefaultVersion)

	if len(cfg.Members) == 0 {
		cfg.Members = DefaultMembers()
	}

	paths := map[string]string{
		"manifest_path":   cfg.ManifestPath,
		"toolchain_path":  cfg.ToolchainPath,
		"app_config_path": cfg.AppConfigPath,
		"build_file_path": cfg.BuildFilePath,
	}
	for label, p := range paths {
		if err := validatePath(p, label); err != nil {
			return err
		}
	}

	for i, member := range cfg.Members {
		if strings.TrimSpace(member) == "" {
			return fmt.Errorf("members[%d]: %w", i, errEmptyMember)
		}

		if err := validatePath(member, fmt.Sprintf("members[%d]", i)); err != nil {
			return err
		}
	}

	return nil
}

// validatePath ensures p is relative and does not climb out of the root.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("%s %q: %w", label, p, errAbsolutePath)
	}

	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s %q: %w", label, p, errEscapingPath)
	}

	return nil
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
