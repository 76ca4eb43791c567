package rules

import (
	"regexp"
	"strings"
)

// Last-resort textual detection, used when proper parsing fails or when a
// destructive command hides inside substitution text the tokenizer keeps
// opaque. Compiled once, referenced read-only.
var (
	rmForceRecursiveRE = regexp.MustCompile(
		`(?:^|[^\w/\\])(?:/[^\s'";|&]+/)?rm\b[^\n;|&]*` +
			`(?:\s-(?:[a-z]*r[a-z]*f|[a-z]*f[a-z]*r)\b` +
			`|\s-r\b[^\n;|&]*\s-f\b` +
			`|\s-f\b[^\n;|&]*\s-r\b` +
			`|\s--recursive\b[^\n;|&]*\s--force\b` +
			`|\s--force\b[^\n;|&]*\s--recursive\b)`,
	)

	gitPushForceRE   = regexp.MustCompile(`\bgit\s+push\b[^\n;|&]*\s(?:-f\b|--force\b)`)
	gitBranchForceRE = regexp.MustCompile(`\bgit\s+branch\b[^\n;|&]*\s-D\b`)
	gitRestoreRE     = regexp.MustCompile(`\bgit\s+restore\b`)
)

// DangerousText scans raw command text for destructive operations.
// False negatives are accepted; this is a backstop, not the primary path.
func DangerousText(text string) Verdict {
	lower := strings.ToLower(text)

	if rmForceRecursiveRE.MatchString(lower) {
		return Block("rm -rf is destructive. List files first, then delete individually.")
	}

	if strings.Contains(lower, "git reset --hard") {
		return Block(reasonGitResetHard)
	}

	if strings.Contains(lower, "git reset --merge") {
		return Block(reasonGitResetMerge)
	}

	if strings.Contains(lower, "git clean -f") || strings.Contains(lower, "git clean --force") {
		return Block(reasonGitCleanForce)
	}

	if gitPushForceRE.MatchString(lower) && !strings.Contains(lower, "--force-with-lease") {
		return Block(reasonGitPushForce)
	}

	// Case matters here: only uppercase -D force-deletes.
	if gitBranchForceRE.MatchString(text) {
		return Block(reasonGitBranchForceDelete)
	}

	if strings.Contains(lower, "git stash drop") {
		return Block(reasonGitStashDrop)
	}

	if strings.Contains(lower, "git stash clear") {
		return Block(reasonGitStashClear)
	}

	if strings.Contains(lower, "git checkout --") {
		return Block(reasonGitCheckoutDoubleDash)
	}

	if gitRestoreRE.MatchString(lower) &&
		!strings.Contains(lower, "--staged") &&
		!strings.Contains(lower, "--help") &&
		!strings.Contains(lower, "--version") {
		if strings.Contains(lower, "--worktree") {
			return Block(reasonGitRestoreTree)
		}

		return Block(reasonGitRestore)
	}

	return Allow()
}
