package rules

import (
	"strings"

	"github.com/smykla-labs/safetynet/pkg/config"
)

// Env carries the per-evaluation environment the rulesets classify against.
// It is supplied by the invocation layer; the rulesets never read process
// state themselves.
type Env struct {
	// Cwd is the working directory of the tool call. Empty means unknown
	// (for example after a cd in an earlier segment), which classifies
	// relative deletion targets conservatively.
	Cwd string

	// Home is the invoking user's home directory.
	Home string

	// TmpDir is the value of $TMPDIR, when set.
	TmpDir string

	// TrustTmpDir is false when the segment itself assigns TMPDIR=, in
	// which case $TMPDIR expansion cannot be trusted as a temp root.
	TrustTmpDir bool

	// Strict narrows the allowed set (within-cwd deletions block,
	// indeterminate verdicts block).
	Strict bool
}

// Rules bundles the three domain rulesets behind a single dispatch point.
// Construct once, use read-only.
type Rules struct {
	git       gitRules
	deletion  deletionRules
	sensitive sensitiveRules
}

// New builds the rulesets from configuration. A nil config uses defaults.
func New(cfg *config.RulesConfig) *Rules {
	var (
		gitCfg  *config.GitRulesConfig
		delCfg  *config.DeletionRulesConfig
		sensCfg *config.SensitiveRulesConfig
	)

	if cfg != nil {
		gitCfg = cfg.Git
		delCfg = cfg.Deletion
		sensCfg = cfg.Sensitive
	}

	return &Rules{
		git:       newGitRules(gitCfg),
		deletion:  newDeletionRules(delCfg),
		sensitive: newSensitiveRules(sensCfg),
	}
}

// EvaluateSegment classifies one wrapper-stripped token sequence.
// rawText is the original segment text, used for the last-resort textual
// heuristics when no ruleset claims the command.
func (r *Rules) EvaluateSegment(tokens []string, rawText string, env *Env) Verdict {
	if len(tokens) == 0 {
		return Allow()
	}

	head := NormalizeProgram(tokens[0])

	// busybox runs its applets behind an extra argv slot.
	if head == "busybox" && len(tokens) >= 2 && NormalizeProgram(tokens[1]) == "rm" {
		return r.deletion.Evaluate(tokens[2:], env)
	}

	switch r.classify(head) {
	case DomainGit:
		return r.git.Evaluate(tokens[1:])
	case DomainDeletion:
		return r.deletion.Evaluate(tokens[1:], env)
	case DomainSensitiveRead:
		return r.sensitive.Evaluate(head, tokens[1:])
	case DomainUnknown:
		return r.evaluateUnknown(tokens, rawText, env)
	default:
		return r.evaluateUnknown(tokens, rawText, env)
	}
}

// evaluateUnknown scans an unclaimed command for destructive commands
// embedded in later tokens (substitution text, xargs-style arguments) and
// falls back to the textual heuristics.
func (r *Rules) evaluateUnknown(tokens []string, rawText string, env *Env) Verdict {
	for i := 1; i < len(tokens); i++ {
		embedded := NormalizeProgram(tokens[i])

		switch embedded {
		case "rm":
			if v := r.deletion.Evaluate(tokens[i+1:], env); v.IsBlock() {
				return v
			}
		case "git":
			if v := r.git.Evaluate(tokens[i+1:]); v.IsBlock() {
				return v
			}
		}

		if r.sensitive.isReadCommand(embedded) {
			if v := r.sensitive.Evaluate(embedded, tokens[i+1:]); v.IsBlock() {
				return v
			}
		}
	}

	return DangerousText(rawText)
}

// shortOpts collects the letters of single-dash option tokens, so combined
// forms like -fd are visible as individual flags. Scanning stops at `--`.
func shortOpts(tokens []string) map[rune]bool {
	opts := make(map[rune]bool)

	for _, tok := range tokens {
		if tok == "--" {
			break
		}

		if len(tok) < 2 || tok[0] != '-' || tok[1] == '-' {
			continue
		}

		for _, c := range tok[1:] {
			opts[c] = true
		}
	}

	return opts
}

// hasToken reports whether tokens contains the given token, case-insensitive.
func hasToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if strings.EqualFold(tok, want) {
			return true
		}
	}

	return false
}
