// Package engine drives command analysis: it splits a command line into
// segments, resolves wrapper prefixes, recurses into nested shell and
// interpreter invocations, and aggregates per-segment verdicts into a
// single decision.
package engine

import (
	"regexp"
	"strings"

	"github.com/smykla-labs/safetynet/internal/rules"
	"github.com/smykla-labs/safetynet/pkg/config"
	"github.com/smykla-labs/safetynet/pkg/logger"
	"github.com/smykla-labs/safetynet/pkg/shell"
)

// StrictModeHint is appended to blocking reasons that only fire in strict
// mode, so the operator knows how to relax the decision.
const StrictModeHint = " [strict mode - disable with: unset SAFETYNET_STRICT]"

const (
	reasonRecursionDepth = "command nesting exceeds analysis depth; cannot verify safety"
	reasonSegmentBudget  = "command has too many segments to analyze; cannot verify safety"
	reasonShellNoCommand = "nested shell invocation could not be analyzed"
	reasonParseFailure   = "unable to parse shell command safely"
	reasonInlineEscape   = "interpreter one-liner shells out with a non-literal command; cannot verify safety"
)

// Request describes one command to analyze.
type Request struct {
	Command string
	Cwd     string
	Strict  bool
}

// Decision is the aggregate outcome for a command. Segment holds the
// segment text that produced a non-allow verdict, for reporting.
type Decision struct {
	Verdict rules.Verdict
	Segment string
}

// Analyzer evaluates command lines against the rule engine.
type Analyzer struct {
	log         logger.Logger
	rules       *rules.Rules
	env         rules.Env
	maxDepth    int
	maxSegments int
}

// New builds an Analyzer from configuration. The rules.Env carries the
// process-level facts (home, tmpdir) that path classification needs.
func New(cfg *config.Config, env rules.Env, log logger.Logger) *Analyzer {
	return &Analyzer{
		log:         log,
		rules:       rules.New(cfg.GetRules()),
		env:         env,
		maxDepth:    cfg.GetEngine().GetMaxRecursionDepth(),
		maxSegments: cfg.GetEngine().GetMaxSegments(),
	}
}

// Evaluate analyzes a command line and returns the aggregate decision.
// The first blocking segment wins; an indeterminate segment blocks only
// in strict mode, otherwise it is allowed through with a log line.
func (a *Analyzer) Evaluate(req Request) Decision {
	env := a.env
	env.Cwd = req.Cwd
	env.Strict = req.Strict

	budget := a.maxSegments

	dec := a.analyze(req.Command, env, 0, &budget)

	if dec.Verdict.IsIndeterminate() {
		if req.Strict {
			a.log.Info("indeterminate segment blocked in strict mode", "segment", dec.Segment)

			return Decision{
				Verdict: rules.Block(dec.Verdict.Reason + StrictModeHint),
				Segment: dec.Segment,
			}
		}

		a.log.Info("indeterminate segment allowed",
			"reason", dec.Verdict.Reason,
			"segment", dec.Segment,
		)

		return Decision{Verdict: rules.Allow()}
	}

	return dec
}

// analyze evaluates one command string at the given nesting depth. It
// returns the first Block found, else the first Indeterminate, else Allow.
func (a *Analyzer) analyze(command string, env rules.Env, depth int, budget *int) Decision {
	if depth > a.maxDepth {
		return Decision{Verdict: rules.Indeterminate(reasonRecursionDepth), Segment: command}
	}

	segments := shell.SplitSegments(command)

	var pending *Decision

	for _, seg := range segments {
		if *budget <= 0 {
			return Decision{Verdict: rules.Indeterminate(reasonSegmentBudget), Segment: seg.Text}
		}

		*budget--

		dec := a.analyzeSegment(seg.Text, &env, depth, budget)

		switch {
		case dec.Verdict.IsBlock():
			return dec
		case dec.Verdict.IsIndeterminate() && pending == nil:
			pending = &dec
		}
	}

	if pending != nil {
		return *pending
	}

	return Decision{Verdict: rules.Allow()}
}

// analyzeSegment evaluates a single pipeline segment. env is a pointer so
// that cwd invalidation after a directory change carries to later segments.
func (a *Analyzer) analyzeSegment(text string, env *rules.Env, depth int, budget *int) Decision {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Decision{Verdict: rules.Allow()}
	}

	tokens, err := shell.Tokenize(trimmed)
	if err != nil {
		a.log.Debug("segment did not tokenize, falling back to text heuristics",
			"error", err.Error(),
		)

		// A grouped directory change ("{ cd ..", "(cd /") does not
		// tokenize either, so detect it textually before giving up on
		// the segment.
		if changesCwdText(trimmed) {
			env.Cwd = ""
		}

		v := rules.DangerousText(trimmed)
		if v.IsBlock() {
			return Decision{Verdict: v, Segment: trimmed}
		}

		return Decision{Verdict: rules.Indeterminate(reasonParseFailure), Segment: trimmed}
	}

	a.applyAssignments(tokens, env)

	stripped := stripWrappers(tokens)
	if len(stripped) == 0 {
		return Decision{Verdict: rules.Allow()}
	}

	program := rules.NormalizeProgram(stripped[0])

	if changesCwd(program) {
		// After cd/pushd/popd the working directory is no longer the
		// one the hook was told about; relative paths in later
		// segments cannot be resolved.
		env.Cwd = ""
	}

	if shellPrograms[program] {
		return a.analyzeNestedShell(trimmed, stripped, *env, depth, budget)
	}

	if interpreterPrograms[program] {
		return a.analyzeInterpreter(trimmed, stripped, *env, depth, budget)
	}

	v := a.rules.EvaluateSegment(stripped, trimmed, env)

	return Decision{Verdict: v, Segment: trimmed}
}

// analyzeNestedShell recurses into `bash -c 'cmd'` style invocations.
func (a *Analyzer) analyzeNestedShell(text string, tokens []string, env rules.Env, depth int, budget *int) Decision {
	inner, ok := extractShellCommand(tokens)
	if !ok {
		if hasShellCommandFlag(tokens) {
			return Decision{Verdict: rules.Indeterminate(reasonShellNoCommand), Segment: text}
		}

		// A plain shell invocation (interactive or script file) is not
		// a wrapped command line.
		return Decision{Verdict: rules.Allow()}
	}

	a.log.Debug("recursing into nested shell", "depth", depth+1)

	return a.analyze(inner, env, depth+1, budget)
}

// analyzeInterpreter inspects `python -c`/`node -e` one-liners for shell
// escapes. A literal embedded command is analyzed recursively; evidence
// of an escape with a non-literal command is indeterminate.
func (a *Analyzer) analyzeInterpreter(text string, tokens []string, env rules.Env, depth int, budget *int) Decision {
	code, ok := extractInlineCode(tokens)
	if !ok {
		return Decision{Verdict: rules.Allow()}
	}

	embedded, evidence := scanInlineCode(code)
	if !evidence {
		return Decision{Verdict: rules.Allow()}
	}

	if embedded == "" {
		if v := rules.DangerousText(code); v.IsBlock() {
			return Decision{Verdict: v, Segment: text}
		}

		return Decision{Verdict: rules.Indeterminate(reasonInlineEscape), Segment: text}
	}

	a.log.Debug("recursing into interpreter shell escape", "depth", depth+1)

	return a.analyze(embedded, env, depth+1, budget)
}

// applyAssignments reacts to leading VAR=value tokens. A TMPDIR override
// makes temp-path trust unsound for the rest of the command line.
func (a *Analyzer) applyAssignments(tokens []string, env *rules.Env) {
	for _, tok := range tokens {
		if !assignmentRE.MatchString(tok) {
			return
		}

		if strings.HasPrefix(tok, "TMPDIR=") {
			env.TrustTmpDir = false
		}
	}
}

func changesCwd(program string) bool {
	switch program {
	case "cd", "pushd", "popd":
		return true
	default:
		return false
	}
}

// cwdChangeTextRE spots cd/pushd/popd behind group and subshell openers
// that defeat tokenization, e.g. "{ cd ..", "(cd /tmp", "$( pushd /".
var cwdChangeTextRE = regexp.MustCompile(
	`(?i)^\s*(?:\$\(\s*)?[({]*\s*(?:command\s+|builtin\s+)?(?:cd|pushd|popd)(?:\s|$)`,
)

func changesCwdText(text string) bool {
	return cwdChangeTextRE.MatchString(text)
}
