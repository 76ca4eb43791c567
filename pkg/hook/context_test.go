package hook_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-labs/safetynet/pkg/hook"
)

var _ = Describe("Context", func() {
	It("round-trips event type names", func() {
		Expect(hook.EventTypeString("PreToolUse")).To(Equal(hook.EventTypePreToolUse))
		Expect(hook.EventTypePreToolUse.String()).To(Equal("PreToolUse"))
		Expect(hook.EventTypeString("nonsense")).To(Equal(hook.EventTypeUnknown))
	})

	It("round-trips tool type names", func() {
		Expect(hook.ToolTypeString("Bash")).To(Equal(hook.ToolTypeBash))
		Expect(hook.ToolTypeBash.String()).To(Equal("Bash"))
		Expect(hook.ToolTypeString("nonsense")).To(Equal(hook.ToolTypeUnknown))
	})

	It("reports Bash invocations", func() {
		ctx := &hook.Context{
			ToolName:  hook.ToolTypeBash,
			ToolInput: hook.ToolInput{Command: "git status"},
		}
		Expect(ctx.IsBashTool()).To(BeTrue())
		Expect(ctx.GetCommand()).To(Equal("git status"))

		other := &hook.Context{ToolName: hook.ToolTypeRead}
		Expect(other.IsBashTool()).To(BeFalse())
	})
})
