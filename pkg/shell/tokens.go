package shell

import (
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrEmptySegment is returned when the segment holds no command.
	ErrEmptySegment = errors.New("empty segment")

	// ErrParseFailed is returned when the segment cannot be parsed
	// (unterminated quote, trailing escape, and similar).
	ErrParseFailed = errors.New("failed to parse segment")

	// ErrUnsupported is returned for shell constructs the analyzer does not
	// model (loops, conditionals, function definitions).
	ErrUnsupported = errors.New("unsupported shell construct")
)

// Tokenize splits one segment into shell-unescaped word tokens.
//
// Leading VAR=value assignments are re-emitted as plain tokens so the
// wrapper resolver can strip them. Command and process substitutions stay
// opaque: their source text is kept verbatim inside the containing token
// and is never lifted into tokens of its own.
func Tokenize(segment string) ([]string, error) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return nil, ErrEmptySegment
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))

	file, err := parser.Parse(strings.NewReader(segment), "")
	if err != nil {
		return nil, errors.Wrap(ErrParseFailed, err.Error())
	}

	if len(file.Stmts) == 0 {
		return nil, ErrEmptySegment
	}

	if len(file.Stmts) > 1 {
		return nil, ErrUnsupported
	}

	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok {
		return nil, ErrUnsupported
	}

	tokens := make([]string, 0, len(call.Assigns)+len(call.Args))

	for _, assign := range call.Assigns {
		if assign.Name == nil {
			continue
		}

		tokens = append(tokens, assign.Name.Value+"="+wordText(assign.Value))
	}

	for _, word := range call.Args {
		tokens = append(tokens, wordText(word))
	}

	if len(tokens) == 0 {
		return nil, ErrEmptySegment
	}

	return tokens, nil
}

// wordText flattens a word into its unescaped text. Quoting is resolved,
// parameter expansions keep their `$NAME` spelling, and substitutions keep
// their raw source.
func wordText(word *syntax.Word) string {
	if word == nil {
		return ""
	}

	var b strings.Builder

	for _, part := range word.Parts {
		writeWordPart(&b, part)
	}

	return b.String()
}

func writeWordPart(b *strings.Builder, part syntax.WordPart) {
	switch p := part.(type) {
	case *syntax.Lit:
		b.WriteString(unescapeLit(p.Value))
	case *syntax.SglQuoted:
		b.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			writeWordPart(b, inner)
		}
	default:
		// Parameter expansions, substitutions, globs: keep the raw source.
		b.WriteString(rawSource(part))
	}
}

// unescapeLit resolves bare backslash escapes in an unquoted literal.
func unescapeLit(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(s[i])

			continue
		}

		if s[i] != '\\' {
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// rawSource prints a syntax node back to its source form.
func rawSource(node syntax.Node) string {
	var b strings.Builder

	printer := syntax.NewPrinter()
	if err := printer.Print(&b, node); err != nil {
		return ""
	}

	return b.String()
}
