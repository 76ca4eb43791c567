package rules

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/smykla-labs/safetynet/pkg/config"
)

const reasonSensitiveRead = "Reading sensitive files is not allowed. " +
	"This path may contain credentials or API keys."

// Directories under home whose entire contents are sensitive.
var sensitiveDirs = []string{
	".ssh",
	".config/gh",
	".gemini",
	".config/opencode",
	".cursor",
	".codex",
}

// Individual sensitive files, home-relative.
var sensitiveFiles = map[string]bool{
	".api_keys":                  true,
	".gitconfig":                 true,
	".claude/.credentials.json": true,
	".claude/.claude.json":       true,
}

// Reader flags that consume a value, so the value is not mistaken for a path.
var readerFlagsWithValue = map[string]bool{
	"-n":      true,
	"-c":      true,
	"-q":      true,
	"--bytes": true,
	"--lines": true,
}

// defaultReadCommands are utilities that print file contents.
var defaultReadCommands = []string{
	"cat", "less", "more", "head", "tail", "bat", "batcat",
	"view", "strings", "xxd", "hexdump", "od", "tac", "nl",
}

// sensitiveRules blocks reads of credential-bearing paths.
// Matching is case-sensitive on POSIX-style paths; symlink resolution is a
// documented non-goal.
type sensitiveRules struct {
	readCommands  map[string]bool
	extraPatterns []string
}

func newSensitiveRules(cfg *config.SensitiveRulesConfig) sensitiveRules {
	commands := make(map[string]bool, len(defaultReadCommands))
	for _, name := range defaultReadCommands {
		commands[name] = true
	}

	var extra []string

	if cfg != nil {
		for _, name := range cfg.ReadCommands {
			commands[strings.ToLower(name)] = true
		}

		extra = cfg.ExtraPatterns
	}

	return sensitiveRules{
		readCommands:  commands,
		extraPatterns: extra,
	}
}

func (s sensitiveRules) isReadCommand(program string) bool {
	return s.readCommands[program]
}

// Evaluate classifies a file-reading command's argv.
func (s sensitiveRules) Evaluate(_ string, argv []string) Verdict {
	for _, target := range extractReadTargets(argv) {
		if s.isSensitivePath(target) {
			return Block(reasonSensitiveRead)
		}
	}

	return Allow()
}

// extractReadTargets collects positional path arguments, skipping flags and
// the values of value-taking flags. `--` ends flag handling.
func extractReadTargets(argv []string) []string {
	var (
		targets   []string
		afterDash bool
		skipNext  bool
	)

	for _, tok := range argv {
		switch {
		case skipNext:
			skipNext = false
		case afterDash:
			targets = append(targets, tok)
		case tok == "--":
			afterDash = true
		case strings.HasPrefix(tok, "-") && tok != "-":
			if readerFlagsWithValue[tok] {
				skipNext = true
			}
		default:
			targets = append(targets, tok)
		}
	}

	return targets
}

// isSensitivePath checks a single path against the catalog.
func (s sensitiveRules) isSensitivePath(target string) bool {
	normalized, underHome := normalizeHomePath(target)
	if !underHome {
		return false
	}

	if sensitiveFiles[normalized] {
		return true
	}

	for _, dir := range sensitiveDirs {
		if normalized == dir || strings.HasPrefix(normalized, dir+"/") {
			return true
		}
	}

	for _, pattern := range s.extraPatterns {
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
	}

	return false
}

// normalizeHomePath converts a path to home-relative form. The second
// return is false when the path is not under a home directory.
func normalizeHomePath(target string) (string, bool) {
	switch {
	case target == "~" || target == "$HOME" || target == "${HOME}":
		return "", true
	case strings.HasPrefix(target, "~/"):
		return path.Clean(target[2:]), true
	case strings.HasPrefix(target, "$HOME/"):
		return path.Clean(target[len("$HOME/"):]), true
	case strings.HasPrefix(target, "${HOME}/"):
		return path.Clean(target[len("${HOME}/"):]), true
	}

	// /home/<user>/rest → rest
	if strings.HasPrefix(target, "/home/") {
		parts := strings.SplitN(target[len("/home/"):], "/", 2)
		if len(parts) < 2 || parts[1] == "" {
			return "", true
		}

		return path.Clean(parts[1]), true
	}

	return "", false
}
