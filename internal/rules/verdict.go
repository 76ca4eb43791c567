// Package rules classifies resolved commands against the three safety
// domains: git state mutation, recursive deletion, and sensitive-file reads.
package rules

// Kind is the classification outcome for one segment or command line.
type Kind int

const (
	// KindAllow lets the command through.
	KindAllow Kind = iota

	// KindBlock denies the command with a specific reason.
	KindBlock

	// KindIndeterminate means the command could not be classified (parse
	// failure, unknown construct, recursion limit). Strict mode turns this
	// into a block; the default resolves it to allow.
	KindIndeterminate
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindAllow:
		return "allow"
	case KindBlock:
		return "block"
	case KindIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Verdict is the engine's output for one segment.
type Verdict struct {
	// Kind is the classification outcome.
	Kind Kind

	// Reason names the exact danger for blocks, or the analysis gap for
	// indeterminate verdicts. Empty for allows.
	Reason string
}

// Allow creates an allowing verdict.
func Allow() Verdict {
	return Verdict{Kind: KindAllow}
}

// Block creates a blocking verdict with a specific reason.
func Block(reason string) Verdict {
	return Verdict{Kind: KindBlock, Reason: reason}
}

// Indeterminate creates a verdict for commands that could not be classified.
func Indeterminate(reason string) Verdict {
	return Verdict{Kind: KindIndeterminate, Reason: reason}
}

// IsAllow returns true for allowing verdicts.
func (v Verdict) IsAllow() bool {
	return v.Kind == KindAllow
}

// IsBlock returns true for blocking verdicts.
func (v Verdict) IsBlock() bool {
	return v.Kind == KindBlock
}

// IsIndeterminate returns true for unclassifiable verdicts.
func (v Verdict) IsIndeterminate() bool {
	return v.Kind == KindIndeterminate
}
