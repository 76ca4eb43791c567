// Package parser provides JSON input parsing for Claude Code hooks.
package parser

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/safetynet/pkg/hook"
)

var (
	// ErrEmptyInput is returned when the input is empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidJSON is returned when the input is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// JSONInput represents the raw JSON input structure.
type JSONInput struct {
	ToolName       string          `json:"tool_name,omitempty"`
	Tool           string          `json:"tool,omitempty"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
	Command        string          `json:"command,omitempty"`
	Cwd            string          `json:"cwd,omitempty"`
	SessionID      string          `json:"session_id,omitempty"`
	TranscriptPath string          `json:"transcript_path,omitempty"`
}

// JSONParser parses JSON input from stdin or environment variable.
type JSONParser struct {
	reader io.Reader
}

// NewJSONParser creates a new JSONParser that reads from the given reader.
func NewJSONParser(reader io.Reader) *JSONParser {
	return &JSONParser{
		reader: reader,
	}
}

// Parse parses the JSON input and extracts the hook context.
func (p *JSONParser) Parse(eventType hook.EventType) (*hook.Context, error) {
	jsonBytes, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}

	// If stdin is empty, try environment variable
	if len(jsonBytes) == 0 {
		envInput := os.Getenv("CLAUDE_TOOL_INPUT")
		if envInput == "" {
			return nil, ErrEmptyInput
		}

		jsonBytes = []byte(envInput)
	}

	var input JSONInput

	if unmarshalErr := json.Unmarshal(jsonBytes, &input); unmarshalErr != nil {
		return nil, errors.CombineErrors(ErrInvalidJSON, unmarshalErr)
	}

	// Extract tool name; older hosts used "tool" instead of "tool_name".
	toolName := input.ToolName
	if toolName == "" {
		toolName = input.Tool
	}

	var toolInput hook.ToolInput

	if len(input.ToolInput) > 0 {
		if unmarshalErr := json.Unmarshal(input.ToolInput, &toolInput); unmarshalErr != nil {
			// If tool_input fails to parse, try extracting command directly
			toolInput.Command = input.Command
		}
	} else {
		// No tool_input, use top-level command
		toolInput.Command = input.Command
	}

	ctx := &hook.Context{
		EventType:      eventType,
		ToolName:       hook.ToolTypeString(toolName),
		ToolInput:      toolInput,
		Cwd:            input.Cwd,
		RawJSON:        string(jsonBytes),
		SessionID:      input.SessionID,
		TranscriptPath: input.TranscriptPath,
	}

	return ctx, nil
}
