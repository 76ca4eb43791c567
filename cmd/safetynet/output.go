package main

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/safetynet/internal/redact"
)

// denyOutput is the PreToolUse decision payload Claude Code reads from
// stdout. The process still exits 0; the JSON carries the denial.
type denyOutput struct {
	HookSpecificOutput hookSpecificOutput `json:"hookSpecificOutput"`
}

type hookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// writeDeny emits the deny decision with a redacted, truncated echo of the
// offending command and segment.
func writeDeny(w io.Writer, reason, command, segment string) error {
	msg := "BLOCKED by safetynet\n\n" +
		"Reason: " + reason + "\n\n" +
		"Command: " + redact.Excerpt(command) + "\n\n" +
		"Segment: " + redact.Excerpt(segment) + "\n\n" +
		"If this operation is truly needed, ask the user for explicit " +
		"permission and have them run the command manually."

	out := denyOutput{
		HookSpecificOutput: hookSpecificOutput{
			HookEventName:            "PreToolUse",
			PermissionDecision:       "deny",
			PermissionDecisionReason: msg,
		},
	}

	if err := json.NewEncoder(w).Encode(out); err != nil {
		return errors.Wrap(err, "failed to write deny output")
	}

	return nil
}
