// Package hook provides core types for Claude Code hook context.
package hook

// EventType represents the type of hook event.
type EventType int

const (
	// EventTypeUnknown represents an unknown event type.
	EventTypeUnknown EventType = iota

	// EventTypePreToolUse is triggered before a tool is executed.
	EventTypePreToolUse

	// EventTypePostToolUse is triggered after a tool is executed.
	EventTypePostToolUse
)

// String returns the canonical event name.
func (e EventType) String() string {
	switch e {
	case EventTypePreToolUse:
		return "PreToolUse"
	case EventTypePostToolUse:
		return "PostToolUse"
	default:
		return "Unknown"
	}
}

// EventTypeString parses an event name into an EventType.
func EventTypeString(name string) EventType {
	switch name {
	case "PreToolUse":
		return EventTypePreToolUse
	case "PostToolUse":
		return EventTypePostToolUse
	default:
		return EventTypeUnknown
	}
}

// ToolType represents the type of tool being used.
type ToolType int

const (
	// ToolTypeUnknown represents an unknown tool type.
	ToolTypeUnknown ToolType = iota

	// ToolTypeBash represents the Bash tool for executing shell commands.
	ToolTypeBash

	// ToolTypeWrite represents the Write tool for creating files.
	ToolTypeWrite

	// ToolTypeEdit represents the Edit tool for modifying files.
	ToolTypeEdit

	// ToolTypeRead represents the Read tool for reading files.
	ToolTypeRead
)

// String returns the canonical tool name.
func (t ToolType) String() string {
	switch t {
	case ToolTypeBash:
		return "Bash"
	case ToolTypeWrite:
		return "Write"
	case ToolTypeEdit:
		return "Edit"
	case ToolTypeRead:
		return "Read"
	default:
		return "Unknown"
	}
}

// ToolTypeString parses a tool name into a ToolType.
func ToolTypeString(name string) ToolType {
	switch name {
	case "Bash":
		return ToolTypeBash
	case "Write":
		return ToolTypeWrite
	case "Edit":
		return ToolTypeEdit
	case "Read":
		return ToolTypeRead
	default:
		return ToolTypeUnknown
	}
}

// ToolInput contains the raw tool input data.
type ToolInput struct {
	// Command is the shell command for the Bash tool.
	Command string `json:"command,omitempty"`

	// FilePath is the file path for file operations.
	FilePath string `json:"file_path,omitempty"`
}

// Context represents the complete hook invocation context.
type Context struct {
	// EventType is the type of hook event.
	EventType EventType

	// ToolName is the name of the tool being invoked.
	ToolName ToolType

	// ToolInput contains the tool-specific input parameters.
	ToolInput ToolInput

	// Cwd is the working directory reported by the host for this tool call.
	// Empty when the host did not supply one.
	Cwd string

	// SessionID is the unique identifier for the Claude Code session.
	SessionID string

	// TranscriptPath is the path to the session transcript file.
	TranscriptPath string

	// RawJSON contains the original JSON input for diagnostics.
	RawJSON string
}

// GetCommand returns the command from ToolInput.
func (c *Context) GetCommand() string {
	return c.ToolInput.Command
}

// IsBashTool returns true if the tool is Bash.
func (c *Context) IsBashTool() bool {
	return c.ToolName == ToolTypeBash
}
