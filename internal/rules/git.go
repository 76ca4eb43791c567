package rules

import (
	"strings"

	"github.com/smykla-labs/safetynet/pkg/config"
)

// Reason strings surfaced to the agent. Each names the exact danger.
const (
	reasonGitCheckoutDoubleDash = "git checkout -- discards uncommitted changes permanently. " +
		"Use 'git stash' first."
	reasonGitCheckoutRefDoubleDash = "git checkout <ref> -- <path> overwrites working tree. " +
		"Use 'git stash' first."
	reasonGitCheckoutBranch = "git checkout <branch> switches branches. " +
		"Branch switching is not allowed."
	reasonGitSwitch      = "git switch changes branches. Branch switching is not allowed."
	reasonGitRestore     = "git restore discards uncommitted changes. Use 'git stash' or 'git diff' first."
	reasonGitRestoreTree = "git restore --worktree discards uncommitted changes permanently."
	reasonGitResetHard   = "git reset --hard destroys uncommitted changes. Use 'git stash' first."
	reasonGitResetMerge  = "git reset --merge can lose uncommitted changes."
	reasonGitCleanForce  = "git clean -f removes untracked files permanently. " +
		"Review with 'git clean -n' first."
	reasonGitPushForce = "Force push can destroy remote history. " +
		"Use --force-with-lease if necessary."
	reasonGitBranchForceDelete = "git branch -D force-deletes without merge check. " +
		"Use -d for safety."
	reasonGitStashDrop = "git stash drop permanently deletes stashed changes. " +
		"List stashes first with 'git stash list'."
	reasonGitStashClear  = "git stash clear permanently deletes ALL stashed changes."
	reasonGitRebase      = "git rebase rewrites commit history. Rebase is not allowed."
	reasonGitCommitAmend = "git commit --amend rewrites commit history. Amend is not allowed."
	reasonGitTagDelete   = "git tag -d deletes a tag. Tag deletion is not allowed."
)

// gitRules classifies git subcommand invocations.
type gitRules struct {
	allowBranchSwitching bool
}

func newGitRules(cfg *config.GitRulesConfig) gitRules {
	return gitRules{
		allowBranchSwitching: cfg.IsBranchSwitchingAllowed(),
	}
}

// Evaluate classifies the argv following the `git` program token.
//
// Tie-break: a blocking flag wins even when a non-blocking flag is also
// present. `git clean -fn` blocks (dry-run cannot be guaranteed once -f is
// given) and `git push --force --force-with-lease` blocks (the plain force
// flag alone can rewrite the remote).
func (g gitRules) Evaluate(argv []string) Verdict {
	sub, rest := gitSubcommand(argv)
	if sub == "" {
		return Allow()
	}

	lower := make([]string, len(rest))
	for i, tok := range rest {
		lower[i] = strings.ToLower(tok)
	}

	short := shortOpts(rest)

	switch strings.ToLower(sub) {
	case "checkout":
		return g.evaluateCheckout(rest, lower)
	case "switch":
		return g.evaluateSwitch(lower)
	case "restore":
		return evaluateRestore(lower)
	case "reset":
		return evaluateReset(lower)
	case "clean":
		if hasToken(lower, "--force") || short['f'] {
			return Block(reasonGitCleanForce)
		}

		return Allow()
	case "push":
		// -f/--force blocks even alongside --force-with-lease.
		if hasToken(lower, "--force") || short['f'] {
			return Block(reasonGitPushForce)
		}

		return Allow()
	case "branch":
		// Only uppercase -D force-deletes; -d is merge-checked and allowed.
		if containsExact(rest, "-D") || short['D'] {
			return Block(reasonGitBranchForceDelete)
		}

		return Allow()
	case "stash":
		if len(lower) > 0 && lower[0] == "drop" {
			return Block(reasonGitStashDrop)
		}

		if len(lower) > 0 && lower[0] == "clear" {
			return Block(reasonGitStashClear)
		}

		return Allow()
	case "rebase":
		if hasToken(lower, "-h") || hasToken(lower, "--help") {
			return Allow()
		}

		return Block(reasonGitRebase)
	case "commit":
		if hasToken(lower, "--amend") {
			return Block(reasonGitCommitAmend)
		}

		return Allow()
	case "tag":
		if containsExact(rest, "-d") || containsExact(rest, "-D") ||
			hasToken(lower, "--delete") || short['d'] {
			return Block(reasonGitTagDelete)
		}

		return Allow()
	default:
		return Allow()
	}
}

func (g gitRules) evaluateCheckout(rest, lower []string) Verdict {
	// `checkout -- <paths>` discards; `checkout <ref> -- <path>` overwrites.
	for i, tok := range rest {
		if tok == "--" {
			if i == 0 {
				return Block(reasonGitCheckoutDoubleDash)
			}

			return Block(reasonGitCheckoutRefDoubleDash)
		}
	}

	// New refs carry no data loss.
	if hasToken(lower, "-b") || hasToken(lower, "--orphan") {
		return Allow()
	}

	if g.allowBranchSwitching {
		return Allow()
	}

	// A positional argument (or "-" for the previous branch) switches.
	for _, tok := range rest {
		if !strings.HasPrefix(tok, "-") || tok == "-" {
			return Block(reasonGitCheckoutBranch)
		}
	}

	return Allow()
}

func (g gitRules) evaluateSwitch(lower []string) Verdict {
	if hasToken(lower, "-h") || hasToken(lower, "--help") {
		return Allow()
	}

	if hasToken(lower, "-c") || hasToken(lower, "--create") {
		return Allow()
	}

	if g.allowBranchSwitching {
		return Allow()
	}

	return Block(reasonGitSwitch)
}

func evaluateRestore(lower []string) Verdict {
	if hasToken(lower, "-h") || hasToken(lower, "--help") || hasToken(lower, "--version") {
		return Allow()
	}

	if hasToken(lower, "--worktree") {
		return Block(reasonGitRestoreTree)
	}

	if hasToken(lower, "--staged") {
		return Allow()
	}

	return Block(reasonGitRestore)
}

func evaluateReset(lower []string) Verdict {
	if hasToken(lower, "--hard") {
		return Block(reasonGitResetHard)
	}

	if hasToken(lower, "--merge") {
		return Block(reasonGitResetMerge)
	}

	return Allow()
}

// containsExact reports a case-sensitive token match; needed where git
// distinguishes -d from -D.
func containsExact(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}

	return false
}

// Git global options that consume a value, e.g. `git -C repo status`.
var gitOptsWithValue = map[string]bool{
	"-c":             true,
	"-C":             true,
	"--exec-path":    true,
	"--git-dir":      true,
	"--namespace":    true,
	"--work-tree":    true,
	"--super-prefix": true,
}

// Git global options without a value.
var gitOptsNoValue = map[string]bool{
	"-p":                   true,
	"-P":                   true,
	"-h":                   true,
	"--help":               true,
	"--no-pager":           true,
	"--paginate":           true,
	"--version":            true,
	"--bare":               true,
	"--no-replace-objects": true,
	"--literal-pathspecs":  true,
	"--noglob-pathspecs":   true,
	"--icase-pathspecs":    true,
}

// gitSubcommand locates the subcommand after git's global options and
// returns it with the remaining argv.
func gitSubcommand(argv []string) (string, []string) {
	i := 0

	for i < len(argv) {
		tok := argv[i]

		if tok == "--" {
			i++
			break
		}

		if !strings.HasPrefix(tok, "-") || tok == "-" {
			break
		}

		switch {
		case gitOptsNoValue[tok]:
			i++
		case gitOptsWithValue[tok]:
			i += 2
		case strings.HasPrefix(tok, "--"):
			// --opt=value or unknown long flag.
			i++
		case len(tok) > 2 && (strings.HasPrefix(tok, "-C") || strings.HasPrefix(tok, "-c")):
			// Short option with attached value (-Crepo, -ckey=val).
			i++
		default:
			i++
		}
	}

	if i >= len(argv) {
		return "", nil
	}

	return argv[i], argv[i+1:]
}
