package rules

import (
	"path"
	"strings"

	"github.com/smykla-labs/safetynet/pkg/config"
)

const (
	reasonRmRootOrHome = "rm -rf on root or home directories is catastrophic and not allowed."
	reasonRmOutsideCwd = "rm -rf outside the working directory can destroy unrelated files. " +
		"Delete within the project directory or a temp directory."
	reasonRmWithinCwdStrict = "rm -rf inside the working directory is blocked in strict mode. " +
		"List files first, then delete individually."
	reasonRmUnresolvable = "rm -rf with an unresolvable target cannot be verified as safe."
)

// PathClass describes where a deletion target resolves to.
type PathClass int

const (
	// PathTemp is under a known temp root.
	PathTemp PathClass = iota

	// PathWithinCwd resolves inside the invocation's working directory.
	PathWithinCwd

	// PathOther is outside both cwd and temp roots.
	PathOther

	// PathRootOrHome is the filesystem root, the home directory, or another
	// catastrophic root.
	PathRootOrHome
)

// String returns the string representation of a PathClass.
func (c PathClass) String() string {
	switch c {
	case PathTemp:
		return "temp"
	case PathWithinCwd:
		return "within-cwd"
	case PathOther:
		return "other"
	case PathRootOrHome:
		return "root-or-home"
	default:
		return "unknown"
	}
}

// Roots whose recursive deletion is never acceptable, beyond "/" and home.
var catastrophicRoots = map[string]bool{
	"/home":  true,
	"/usr":   true,
	"/etc":   true,
	"/var":   true,
	"/bin":   true,
	"/sbin":  true,
	"/lib":   true,
	"/lib64": true,
	"/boot":  true,
	"/opt":   true,
	"/root":  true,
}

// deletionRules classifies rm-family invocations.
type deletionRules struct {
	tempRoots []string
}

func newDeletionRules(cfg *config.DeletionRulesConfig) deletionRules {
	return deletionRules{
		tempRoots: cfg.GetTempRoots(),
	}
}

// rmFlags is the normalized flag pair the ruleset cares about.
// Flag order and short/long/combined spelling must not affect it.
type rmFlags struct {
	recursive bool
	force     bool
}

// Evaluate classifies the argv following the `rm` program token.
// Deletions that are not both recursive and forced are out of scope.
func (d deletionRules) Evaluate(argv []string, env *Env) Verdict {
	flags, paths := parseRmArgs(argv)

	if !flags.recursive || !flags.force {
		return Allow()
	}

	worst := PathTemp
	hasPath := false

	for _, p := range paths {
		hasPath = true

		class := d.ClassifyPath(p, env)
		if class > worst {
			worst = class
		}
	}

	if !hasPath {
		return Allow()
	}

	switch worst {
	case PathRootOrHome:
		return Block(reasonRmRootOrHome)
	case PathOther:
		return Block(reasonRmOutsideCwd)
	case PathWithinCwd:
		if env.Strict {
			return Block(reasonRmWithinCwdStrict)
		}

		return Allow()
	case PathTemp:
		return Allow()
	default:
		return Block(reasonRmUnresolvable)
	}
}

// parseRmArgs normalizes rm flags and collects target paths.
// `--` terminates flag parsing.
func parseRmArgs(argv []string) (rmFlags, []string) {
	var (
		flags     rmFlags
		paths     []string
		afterDash bool
	)

	for _, tok := range argv {
		if afterDash {
			paths = append(paths, tok)
			continue
		}

		switch {
		case tok == "--":
			afterDash = true
		case tok == "--recursive":
			flags.recursive = true
		case tok == "--force":
			flags.force = true
		case strings.HasPrefix(tok, "--"):
			// Other long flags (--verbose, --no-preserve-root, ...) do not
			// change the recursive/force pair.
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			for _, c := range tok[1:] {
				switch c {
				case 'r', 'R':
					flags.recursive = true
				case 'f':
					flags.force = true
				}
			}
		default:
			paths = append(paths, tok)
		}
	}

	return flags, paths
}

// ClassifyPath resolves one deletion target against the environment.
func (d deletionRules) ClassifyPath(target string, env *Env) PathClass {
	expanded := ExpandPath(target, env)

	// A target still carrying an unexpanded variable cannot be resolved;
	// treat it as outside the safe zones.
	if strings.Contains(expanded, "$") {
		return PathOther
	}

	// Trailing glob over a directory classifies like the directory itself.
	trimmed := strings.TrimSuffix(expanded, "/*")
	if trimmed == "" {
		return PathRootOrHome
	}

	if path.IsAbs(trimmed) {
		return d.classifyAbsolute(path.Clean(trimmed), env)
	}

	// Relative target: resolve against cwd when known.
	if env.Cwd == "" {
		return PathOther
	}

	joined := path.Clean(path.Join(env.Cwd, trimmed))

	return d.classifyAbsolute(joined, env)
}

func (d deletionRules) classifyAbsolute(p string, env *Env) PathClass {
	if p == "/" {
		return PathRootOrHome
	}

	if env.Home != "" && p == path.Clean(env.Home) {
		return PathRootOrHome
	}

	if catastrophicRoots[p] {
		return PathRootOrHome
	}

	// /home/<user> is a home directory even when it is not ours.
	if dir, _ := path.Split(p); dir == "/home/" {
		return PathRootOrHome
	}

	for _, root := range d.trustedTempRoots(env) {
		if p == root || strings.HasPrefix(p, root+"/") {
			return PathTemp
		}
	}

	if env.Cwd != "" {
		cwd := path.Clean(env.Cwd)
		if p == cwd || strings.HasPrefix(p, cwd+"/") {
			return PathWithinCwd
		}
	}

	return PathOther
}

func (d deletionRules) trustedTempRoots(env *Env) []string {
	roots := d.tempRoots

	if env.TrustTmpDir && env.TmpDir != "" {
		roots = append(append([]string(nil), roots...), path.Clean(env.TmpDir))
	}

	return roots
}

// ExpandPath expands ~, $HOME and $TMPDIR prefixes against the supplied
// environment. Other variables are left in place.
func ExpandPath(target string, env *Env) string {
	switch {
	case target == "~" || target == "$HOME" || target == "${HOME}":
		return env.Home
	case strings.HasPrefix(target, "~/"):
		return path.Join(env.Home, target[2:])
	case strings.HasPrefix(target, "$HOME/"):
		return path.Join(env.Home, target[len("$HOME/"):])
	case strings.HasPrefix(target, "${HOME}/"):
		return path.Join(env.Home, target[len("${HOME}/"):])
	}

	if env.TrustTmpDir && env.TmpDir != "" {
		switch {
		case target == "$TMPDIR" || target == "${TMPDIR}":
			return env.TmpDir
		case strings.HasPrefix(target, "$TMPDIR/"):
			return path.Join(env.TmpDir, target[len("$TMPDIR/"):])
		case strings.HasPrefix(target, "${TMPDIR}/"):
			return path.Join(env.TmpDir, target[len("${TMPDIR}/"):])
		}
	}

	return target
}
