// Package shell splits raw command lines into analyzable pieces.
//
// Segment splitting is a small linear scanner rather than a full parse:
// one segment with broken quoting must not prevent its siblings from being
// analyzed, and mvdan.cc/sh rejects the whole input in that case. Anything
// below the operator level goes through the real parser (see tokens.go).
package shell

import "strings"

// Operator is the shell control operator that introduced a segment.
type Operator string

const (
	// OpNone marks the first segment of a command line.
	OpNone Operator = ""

	// OpSeq is the `;` sequential operator.
	OpSeq Operator = ";"

	// OpAnd is the `&&` conditional operator.
	OpAnd Operator = "&&"

	// OpOr is the `||` conditional operator.
	OpOr Operator = "||"

	// OpPipe is the `|` pipeline operator.
	OpPipe Operator = "|"

	// OpBackground is the `&` background operator.
	OpBackground Operator = "&"

	// OpNewline separates commands on distinct lines.
	OpNewline Operator = "\n"
)

// Segment is one control-operator-delimited sub-command of a command line.
type Segment struct {
	// Text is the trimmed segment text.
	Text string

	// Op is the operator that terminated the previous segment. Informational
	// only; the rulesets treat all segments alike.
	Op Operator
}

// SplitSegments splits a command line on shell control operators.
// Quotes, backslash escapes, `$(...)`, `${...}` and backtick substitutions
// are never split through; substitution bodies stay opaque at this layer.
func SplitSegments(command string) []Segment {
	var (
		segments   []Segment
		start      int
		op         = OpNone
		inSingle   bool
		inDouble   bool
		inBacktick bool
		substDepth int
		braceDepth int
	)

	emit := func(end int, nextOp Operator, nextStart int) {
		text := strings.TrimSpace(command[start:end])
		if text != "" {
			segments = append(segments, Segment{Text: text, Op: op})
		}

		op = nextOp
		start = nextStart
	}

	for i := 0; i < len(command); i++ {
		c := command[i]

		if inSingle {
			if c == '\'' {
				inSingle = false
			}

			continue
		}

		// Backslash escapes the next byte everywhere outside single quotes.
		if c == '\\' {
			i++
			continue
		}

		switch c {
		case '\'':
			if !inDouble {
				inSingle = true
			}

			continue
		case '"':
			inDouble = !inDouble
			continue
		case '`':
			inBacktick = !inBacktick
			continue
		case '$':
			if i+1 < len(command) {
				switch command[i+1] {
				case '(':
					substDepth++
					i++
				case '{':
					braceDepth++
					i++
				}
			}

			continue
		case ')':
			if substDepth > 0 {
				substDepth--
			}

			continue
		case '}':
			if braceDepth > 0 {
				braceDepth--
			}

			continue
		}

		if inDouble || inBacktick || substDepth > 0 || braceDepth > 0 {
			continue
		}

		switch c {
		case ';':
			emit(i, OpSeq, i+1)
		case '\n':
			emit(i, OpNewline, i+1)
		case '|':
			if i+1 < len(command) && command[i+1] == '|' {
				emit(i, OpOr, i+2)
				i++
			} else {
				emit(i, OpPipe, i+1)
			}
		case '&':
			// >&, <& and &> are redirections, not control operators.
			if i > 0 && (command[i-1] == '>' || command[i-1] == '<') {
				continue
			}

			if i+1 < len(command) && command[i+1] == '>' {
				continue
			}

			if i+1 < len(command) && command[i+1] == '&' {
				emit(i, OpAnd, i+2)
				i++
			} else {
				emit(i, OpBackground, i+1)
			}
		}
	}

	emit(len(command), OpNone, len(command))

	return segments
}
