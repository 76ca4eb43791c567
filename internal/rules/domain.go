package rules

import (
	"path"
	"strings"
)

// Domain identifies which ruleset owns a resolved command.
type Domain int

const (
	// DomainUnknown covers programs no ruleset claims.
	DomainUnknown Domain = iota

	// DomainGit covers git subcommand invocations.
	DomainGit

	// DomainDeletion covers rm and equivalents.
	DomainDeletion

	// DomainSensitiveRead covers file-reading utilities.
	DomainSensitiveRead
)

// String returns the string representation of a Domain.
func (d Domain) String() string {
	switch d {
	case DomainGit:
		return "git"
	case DomainDeletion:
		return "deletion"
	case DomainSensitiveRead:
		return "sensitive-read"
	default:
		return "unknown"
	}
}

// NormalizeProgram reduces a command token to a comparable program name:
// lowercased, stripped of substitution and grouping punctuation, basename
// only. Mirrors how embedded commands appear inside `$(...)` text.
func NormalizeProgram(token string) string {
	tok := strings.ToLower(strings.TrimSpace(token))

	for strings.HasPrefix(tok, "$(") {
		tok = tok[2:]
	}

	tok = strings.TrimLeft(tok, "\\`({[")
	tok = strings.TrimRight(tok, "`)}];")

	return path.Base(tok)
}

// classify maps a normalized program name to its owning domain.
func (r *Rules) classify(program string) Domain {
	switch {
	case program == "git":
		return DomainGit
	case program == "rm":
		return DomainDeletion
	case r.sensitive.isReadCommand(program):
		return DomainSensitiveRead
	default:
		return DomainUnknown
	}
}
