package parser_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-labs/safetynet/internal/parser"
	"github.com/smykla-labs/safetynet/pkg/hook"
)

var _ = Describe("JSONParser", func() {
	parse := func(input string) (*hook.Context, error) {
		return parser.NewJSONParser(strings.NewReader(input)).Parse(hook.EventTypePreToolUse)
	}

	It("parses a full PreToolUse payload", func() {
		ctx, err := parse(`{
			"tool_name": "Bash",
			"tool_input": {"command": "git status"},
			"cwd": "/home/user/project",
			"session_id": "abc-123",
			"transcript_path": "/tmp/transcript.jsonl"
		}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctx.IsBashTool()).To(BeTrue())
		Expect(ctx.GetCommand()).To(Equal("git status"))
		Expect(ctx.Cwd).To(Equal("/home/user/project"))
		Expect(ctx.SessionID).To(Equal("abc-123"))
		Expect(ctx.TranscriptPath).To(Equal("/tmp/transcript.jsonl"))
	})

	It("accepts the legacy tool field", func() {
		ctx, err := parse(`{"tool": "Bash", "tool_input": {"command": "ls"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctx.IsBashTool()).To(BeTrue())
	})

	It("falls back to a top-level command", func() {
		ctx, err := parse(`{"tool_name": "Bash", "command": "ls"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctx.GetCommand()).To(Equal("ls"))
	})

	It("maps unknown tools to ToolTypeUnknown", func() {
		ctx, err := parse(`{"tool_name": "Glob", "tool_input": {}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctx.ToolName).To(Equal(hook.ToolTypeUnknown))
		Expect(ctx.IsBashTool()).To(BeFalse())
	})

	It("keeps the raw JSON for diagnostics", func() {
		input := `{"tool_name": "Bash", "tool_input": {"command": "ls"}}`
		ctx, err := parse(input)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctx.RawJSON).To(Equal(input))
	})

	It("fails on empty input", func() {
		_, err := parse("")
		Expect(err).To(MatchError(parser.ErrEmptyInput))
	})

	It("fails on invalid JSON", func() {
		_, err := parse("{not json")
		Expect(err).To(MatchError(parser.ErrInvalidJSON))
	})
})
