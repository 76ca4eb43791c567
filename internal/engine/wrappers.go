package engine

import (
	"regexp"
	"strings"

	"github.com/smykla-labs/safetynet/internal/rules"
)

// Shells whose -c argument is a child command line.
var shellPrograms = map[string]bool{
	"bash": true,
	"sh":   true,
	"zsh":  true,
	"dash": true,
	"ksh":  true,
}

// Interpreters whose -c/-e argument is inline code that may shell out.
var interpreterPrograms = map[string]bool{
	"python":  true,
	"python3": true,
	"node":    true,
	"ruby":    true,
	"perl":    true,
}

// Wrapper prefixes that take no arguments of their own.
var bareWrappers = map[string]bool{
	"nohup":   true,
	"time":    true,
	"command": true,
	"builtin": true,
}

var assignmentRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// stripWrappers removes environment-setting, privilege and scheduling
// prefixes from a token sequence, leaving the command actually invoked.
func stripWrappers(tokens []string) []string {
	for len(tokens) > 0 {
		head := rules.NormalizeProgram(tokens[0])

		switch {
		case assignmentRE.MatchString(tokens[0]):
			tokens = tokens[1:]
		case bareWrappers[head]:
			tokens = tokens[1:]
		case head == "sudo" || head == "doas":
			tokens = stripSudo(tokens[1:])
		case head == "env":
			tokens = stripEnv(tokens[1:])
		case head == "nice":
			tokens = stripValueFlag(tokens[1:], "-n")
		case head == "ionice":
			tokens = stripValueFlags(tokens[1:], map[string]bool{"-c": true, "-n": true, "-t": true})
		case head == "timeout":
			tokens = stripTimeout(tokens[1:])
		case head == "stdbuf":
			tokens = stripStdbuf(tokens[1:])
		default:
			return tokens
		}
	}

	return tokens
}

// stripSudo skips sudo's own flags. Value-taking flags consume the next
// token; `--` ends flag handling.
func stripSudo(tokens []string) []string {
	valueFlags := map[string]bool{"-u": true, "-g": true, "-p": true, "-h": true, "-C": true}

	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		if tok == "--" {
			i++
			break
		}

		if !strings.HasPrefix(tok, "-") {
			break
		}

		if valueFlags[tok] {
			i += 2
			continue
		}

		i++
	}

	if i > len(tokens) {
		return nil
	}

	return tokens[i:]
}

// stripEnv skips env's flags and VAR=value assignments.
func stripEnv(tokens []string) []string {
	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		switch {
		case tok == "-i" || tok == "-0" || tok == "--ignore-environment" || tok == "--null":
			i++
		case tok == "-u" || tok == "--unset":
			i += 2
		case assignmentRE.MatchString(tok):
			i++
		default:
			if i > len(tokens) {
				return nil
			}

			return tokens[i:]
		}
	}

	return nil
}

func stripValueFlag(tokens []string, flag string) []string {
	if len(tokens) >= 2 && tokens[0] == flag {
		return tokens[2:]
	}

	if len(tokens) >= 1 && strings.HasPrefix(tokens[0], flag) && tokens[0] != flag {
		// Attached value, e.g. -n19.
		return tokens[1:]
	}

	return tokens
}

func stripValueFlags(tokens []string, flags map[string]bool) []string {
	i := 0
	for i < len(tokens) && strings.HasPrefix(tokens[i], "-") {
		if flags[tokens[i]] {
			i += 2
			continue
		}

		i++
	}

	if i > len(tokens) {
		return nil
	}

	return tokens[i:]
}

// stripTimeout skips timeout's flags and the duration argument.
func stripTimeout(tokens []string) []string {
	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		switch {
		case tok == "-k" || tok == "--kill-after" || tok == "-s" || tok == "--signal":
			i += 2
		case strings.HasPrefix(tok, "-"):
			i++
		default:
			// The duration positional.
			if i+1 <= len(tokens) {
				return tokens[i+1:]
			}

			return nil
		}
	}

	return nil
}

// stripStdbuf skips stdbuf's -i/-o/-e buffering flags.
func stripStdbuf(tokens []string) []string {
	i := 0
	for i < len(tokens) && strings.HasPrefix(tokens[i], "-") {
		tok := tokens[i]
		if tok == "-i" || tok == "-o" || tok == "-e" {
			i += 2
			continue
		}

		i++
	}

	if i > len(tokens) {
		return nil
	}

	return tokens[i:]
}

// extractShellCommand finds the command-string argument of a shell
// invocation: `-c 'cmd'`, or combined short options containing c drawn from
// the set {c, l, i, s} (`-lc`, `-lic`). Returns ok=false when no command
// string is present.
func extractShellCommand(tokens []string) (string, bool) {
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]

		if tok == "--" {
			return "", false
		}

		if hasCommandStringFlag(tok) {
			if i+1 < len(tokens) {
				return tokens[i+1], true
			}

			return "", false
		}
	}

	return "", false
}

// hasShellCommandFlag reports whether any token is a -c style flag, even
// when the command string itself is missing.
func hasShellCommandFlag(tokens []string) bool {
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "--" {
			return false
		}

		if hasCommandStringFlag(tokens[i]) {
			return true
		}
	}

	return false
}

func hasCommandStringFlag(tok string) bool {
	if tok == "-c" {
		return true
	}

	if len(tok) < 2 || tok[0] != '-' || tok[1] == '-' {
		return false
	}

	sawC := false

	for _, c := range tok[1:] {
		switch c {
		case 'c':
			sawC = true
		case 'l', 'i', 's':
		default:
			return false
		}
	}

	return sawC
}

// extractInlineCode finds the inline-code argument of an interpreter
// one-liner (`python -c 'code'`, `node -e 'code'`).
func extractInlineCode(tokens []string) (string, bool) {
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]

		if tok == "--" {
			return "", false
		}

		if tok == "-c" || tok == "-e" {
			if i+1 < len(tokens) {
				return tokens[i+1], true
			}

			return "", false
		}
	}

	return "", false
}

// Textual evidence of a shell escape inside interpreter one-liner code,
// with the embedded command captured when it is a plain string literal.
var shellEscapeCallRE = regexp.MustCompile(
	`(?:os\.system|subprocess\.(?:run|call|check_call|check_output|Popen)|` +
		`child_process\.\w+|execSync|exec|spawnSync|popen|system)\s*\(\s*` +
		"(['\"`])((?:[^'\"`\\\\]|\\\\.)*?)(['\"`])",
)

// The same call sites with a non-literal argument, e.g. a variable.
var shellEscapeNameRE = regexp.MustCompile(
	`(?:os\.system|subprocess\.(?:run|call|check_call|check_output|Popen)|` +
		`child_process\.\w+|execSync|spawnSync|popen|system)\s*\(`,
)

// Ruby/Perl backtick and %x command execution.
var shellEscapeLiteralRE = regexp.MustCompile("%x[({\\[]|`[^`]+`")

// scanInlineCode looks for a shell-escape call inside interpreter code.
// It returns the embedded command when extractable as a literal, and
// whether any escape evidence was seen at all.
func scanInlineCode(code string) (string, bool) {
	if m := shellEscapeCallRE.FindStringSubmatch(code); m != nil {
		if m[1] == m[3] {
			return m[2], true
		}

		return "", true
	}

	if shellEscapeNameRE.MatchString(code) || shellEscapeLiteralRE.MatchString(code) {
		return "", true
	}

	return "", false
}
