// Package config provides the configuration schema for safetynet.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Defaults applied when a value is omitted everywhere.
const (
	// DefaultMaxRecursionDepth bounds wrapper/interpreter unwrapping.
	DefaultMaxRecursionDepth = 5

	// DefaultMaxSegments bounds the total segments one evaluation may visit.
	DefaultMaxSegments = 64
)

// DefaultTempRoots are directory roots whose recursive deletion is allowed.
var DefaultTempRoots = []string{"/tmp", "/var/tmp", "/private/tmp", "/private/var/tmp"}

// Config is the root configuration.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Strict converts indeterminate and ambiguous cases into blocks.
	Strict *bool `json:"strict,omitempty" koanf:"strict" toml:"strict,omitempty"`

	// Engine holds analysis-pipeline bounds.
	Engine *EngineConfig `json:"engine,omitempty" koanf:"engine" toml:"engine,omitempty"`

	// Rules groups the per-domain ruleset configuration.
	Rules *RulesConfig `json:"rules,omitempty" koanf:"rules" toml:"rules,omitempty"`

	// Logging configures the hook's file logger.
	Logging *LoggingConfig `json:"logging,omitempty" koanf:"logging" toml:"logging,omitempty"`
}

// IsStrict returns the strict-mode setting (default false).
func (c *Config) IsStrict() bool {
	if c == nil || c.Strict == nil {
		return false
	}

	return *c.Strict
}

// GetRules returns the rules section, which may be nil.
func (c *Config) GetRules() *RulesConfig {
	if c == nil {
		return nil
	}

	return c.Rules
}

// GetEngine returns the engine section, which may be nil.
func (c *Config) GetEngine() *EngineConfig {
	if c == nil {
		return nil
	}

	return c.Engine
}

// EngineConfig bounds the analysis pipeline.
type EngineConfig struct {
	// MaxRecursionDepth bounds nested wrapper/interpreter re-entry.
	MaxRecursionDepth *int `json:"max_recursion_depth,omitempty" koanf:"max_recursion_depth" toml:"max_recursion_depth,omitempty"`

	// MaxSegments bounds the total segments visited per evaluation.
	MaxSegments *int `json:"max_segments,omitempty" koanf:"max_segments" toml:"max_segments,omitempty"`
}

// GetMaxRecursionDepth returns the configured depth bound or the default.
func (e *EngineConfig) GetMaxRecursionDepth() int {
	if e == nil || e.MaxRecursionDepth == nil || *e.MaxRecursionDepth <= 0 {
		return DefaultMaxRecursionDepth
	}

	return *e.MaxRecursionDepth
}

// GetMaxSegments returns the configured segment budget or the default.
func (e *EngineConfig) GetMaxSegments() int {
	if e == nil || e.MaxSegments == nil || *e.MaxSegments <= 0 {
		return DefaultMaxSegments
	}

	return *e.MaxSegments
}

// RulesConfig groups per-domain ruleset configuration.
type RulesConfig struct {
	// Git configures the git ruleset.
	Git *GitRulesConfig `json:"git,omitempty" koanf:"git" toml:"git,omitempty"`

	// Deletion configures the rm ruleset.
	Deletion *DeletionRulesConfig `json:"deletion,omitempty" koanf:"deletion" toml:"deletion,omitempty"`

	// Sensitive configures the sensitive-read ruleset.
	Sensitive *SensitiveRulesConfig `json:"sensitive,omitempty" koanf:"sensitive" toml:"sensitive,omitempty"`
}

// GitRulesConfig configures the git ruleset.
type GitRulesConfig struct {
	// AllowBranchSwitching permits `git checkout <branch>` and
	// `git switch <branch>`. Default: false (switching loses unstashed work
	// too easily in agent sessions).
	AllowBranchSwitching *bool `json:"allow_branch_switching,omitempty" koanf:"allow_branch_switching" toml:"allow_branch_switching,omitempty"`
}

// IsBranchSwitchingAllowed returns the branch-switch policy (default false).
func (g *GitRulesConfig) IsBranchSwitchingAllowed() bool {
	if g == nil || g.AllowBranchSwitching == nil {
		return false
	}

	return *g.AllowBranchSwitching
}

// DeletionRulesConfig configures the rm ruleset.
type DeletionRulesConfig struct {
	// TempRoots replaces the default temp-directory roots.
	TempRoots []string `json:"temp_roots,omitempty" koanf:"temp_roots" toml:"temp_roots,omitempty"`
}

// GetTempRoots returns the configured temp roots or the defaults.
func (d *DeletionRulesConfig) GetTempRoots() []string {
	if d == nil || len(d.TempRoots) == 0 {
		return DefaultTempRoots
	}

	return d.TempRoots
}

// SensitiveRulesConfig configures the sensitive-read ruleset.
type SensitiveRulesConfig struct {
	// ExtraPatterns appends doublestar globs (home-relative) to the
	// sensitive-path catalog.
	ExtraPatterns []string `json:"extra_patterns,omitempty" koanf:"extra_patterns" toml:"extra_patterns,omitempty"`

	// ReadCommands appends utilities to the file-reader command set.
	ReadCommands []string `json:"read_commands,omitempty" koanf:"read_commands" toml:"read_commands,omitempty"`
}

// GetLogging returns the logging section, which may be nil.
func (c *Config) GetLogging() *LoggingConfig {
	if c == nil {
		return nil
	}

	return c.Logging
}

// LoggingConfig configures the hook's file logger.
type LoggingConfig struct {
	// Debug enables info-level logging.
	Debug *bool `json:"debug,omitempty" koanf:"debug" toml:"debug,omitempty"`

	// Trace enables debug-level logging.
	Trace *bool `json:"trace,omitempty" koanf:"trace" toml:"trace,omitempty"`

	// File overrides the log file path (default ~/.safetynet/safetynet.log).
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`
}

// GetFile returns the configured log file path, or empty for the default.
func (l *LoggingConfig) GetFile() string {
	if l == nil {
		return ""
	}

	return l.File
}

// IsDebug returns the debug setting (default false).
func (l *LoggingConfig) IsDebug() bool {
	if l == nil || l.Debug == nil {
		return false
	}

	return *l.Debug
}

// IsTrace returns the trace setting (default false).
func (l *LoggingConfig) IsTrace() bool {
	if l == nil || l.Trace == nil {
		return false
	}

	return *l.Trace
}
