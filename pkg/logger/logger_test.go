package logger_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-labs/safetynet/pkg/logger"
)

var _ = Describe("FileLogger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Context("with debug mode", func() {
		It("emits info lines with key=value pairs", func() {
			log := logger.NewFileLoggerWithWriter(buf, true, false)
			log.Info("command allowed", "tool", "Bash")

			line := buf.String()
			Expect(line).To(ContainSubstring("INFO command allowed"))
			Expect(line).To(ContainSubstring("tool=Bash"))
		})

		It("quotes values containing spaces", func() {
			log := logger.NewFileLoggerWithWriter(buf, true, false)
			log.Info("analyzing", "command", "git status")

			Expect(buf.String()).To(ContainSubstring(`command="git status"`))
		})

		It("suppresses debug lines", func() {
			log := logger.NewFileLoggerWithWriter(buf, true, false)
			log.Debug("details")

			Expect(buf.String()).To(BeEmpty())
		})
	})

	Context("with trace mode", func() {
		It("emits debug lines", func() {
			log := logger.NewFileLoggerWithWriter(buf, false, true)
			log.Debug("recursing", "depth", 2)

			Expect(buf.String()).To(ContainSubstring("DEBUG recursing depth=2"))
		})
	})

	Context("with both modes off", func() {
		It("emits only errors", func() {
			log := logger.NewFileLoggerWithWriter(buf, false, false)
			log.Info("ignored")
			log.Debug("ignored")
			log.Error("boom", "error", "broken pipe")

			line := buf.String()
			Expect(line).To(ContainSubstring("ERROR boom"))
			Expect(line).To(ContainSubstring(`error="broken pipe"`))
			Expect(line).NotTo(ContainSubstring("ignored"))
		})
	})

	Describe("With", func() {
		It("carries base pairs on every line", func() {
			log := logger.NewFileLoggerWithWriter(buf, true, false).With("session", "abc")
			log.Info("first")
			log.Info("second", "extra", 1)

			lines := buf.String()
			Expect(lines).To(ContainSubstring("first session=abc"))
			Expect(lines).To(ContainSubstring("second session=abc extra=1"))
		})
	})
})
