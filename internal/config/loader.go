// Package config loads safetynet configuration from layered sources.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-labs/safetynet/pkg/config"
)

var (
	// ErrInvalidTOML is returned when a TOML file cannot be parsed.
	ErrInvalidTOML = errors.New("invalid TOML")

	// ErrInvalidPermissions is returned when a config file is world-writable.
	ErrInvalidPermissions = errors.New("invalid config file permissions")
)

const (
	// GlobalConfigDir is the directory name for global configuration.
	GlobalConfigDir = ".safetynet"

	// GlobalConfigFile is the name of the global configuration file.
	GlobalConfigFile = "config.toml"

	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".safetynet"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "safetynet.toml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "SAFETYNET_"
)

// envKeys maps environment variable suffixes (after EnvPrefix) to config
// paths. Anything not listed is ignored rather than guessed at.
var envKeys = map[string]string{
	"STRICT":                 "strict",
	"DEBUG":                  "logging.debug",
	"TRACE":                  "logging.trace",
	"LOG_FILE":               "logging.file",
	"MAX_RECURSION_DEPTH":    "engine.max_recursion_depth",
	"MAX_SEGMENTS":           "engine.max_segments",
	"ALLOW_BRANCH_SWITCHING": "rules.git.allow_branch_switching",
}

// Loader loads configuration from layered sources using koanf.
// Precedence, lowest to highest:
//  1. Defaults
//  2. Global config (~/.safetynet/config.toml)
//  3. Project config (.safetynet/config.toml or safetynet.toml)
//  4. Environment variables (SAFETYNET_*)
//  5. CLI flags
type Loader struct {
	k       *koanf.Koanf
	homeDir string
	workDir string
}

// NewLoader creates a Loader rooted at the user's home and working dirs.
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewLoaderWithDirs(homeDir, workDir), nil
}

// NewLoaderWithDirs creates a Loader with custom directories (for testing).
func NewLoaderWithDirs(homeDir, workDir string) *Loader {
	return &Loader{
		k:       koanf.New("."),
		homeDir: homeDir,
		workDir: workDir,
	}
}

// Load merges all sources and unmarshals the result.
func (l *Loader) Load(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	unmarshalConf := koanf.UnmarshalConf{Tag: "koanf", FlatPaths: false}
	if err := l.k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// GlobalConfigPath returns the global config file path.
func (l *Loader) GlobalConfigPath() string {
	return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
}

// findProjectConfig locates the project config file, if any.
func (l *Loader) findProjectConfig() string {
	candidates := []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	return ""
}

func (l *Loader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// A world-writable config could let another user inject rule policy.
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(ErrInvalidPermissions,
			"%s is world-writable (mode: %s)", path, info.Mode().Perm())
	}

	if err := l.k.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return errors.Wrapf(ErrInvalidTOML, "%s: %v", path, err)
	}

	return nil
}

// defaults provides the lowest-priority configuration map.
func defaults() map[string]any {
	return map[string]any{
		"version":                    config.CurrentConfigVersion,
		"strict":                     false,
		"engine.max_recursion_depth": config.DefaultMaxRecursionDepth,
		"engine.max_segments":        config.DefaultMaxSegments,
		"rules.deletion.temp_roots":  config.DefaultTempRoots,
	}
}

// envTransform maps SAFETYNET_* variables onto config keys. Boolean keys
// accept the usual shell spellings (1/true/yes/on).
func envTransform(key, value string) (string, any) {
	path, ok := envKeys[strings.TrimPrefix(key, EnvPrefix)]
	if !ok {
		return "", nil
	}

	switch path {
	case "strict", "logging.debug", "logging.trace", "rules.git.allow_branch_switching":
		return path, parseBool(value)
	default:
		return path, value
	}
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
