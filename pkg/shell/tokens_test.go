package shell_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-labs/safetynet/pkg/shell"
)

var _ = Describe("Tokenize", func() {
	It("splits a plain command into words", func() {
		tokens, err := shell.Tokenize("git push origin main")
		Expect(err).NotTo(HaveOccurred())
		Expect(tokens).To(Equal([]string{"git", "push", "origin", "main"}))
	})

	It("resolves single quotes", func() {
		tokens, err := shell.Tokenize("echo 'hello world'")
		Expect(err).NotTo(HaveOccurred())
		Expect(tokens).To(Equal([]string{"echo", "hello world"}))
	})

	It("resolves double quotes", func() {
		tokens, err := shell.Tokenize(`rm -rf "some dir"`)
		Expect(err).NotTo(HaveOccurred())
		Expect(tokens).To(Equal([]string{"rm", "-rf", "some dir"}))
	})

	It("resolves backslash escapes in bare words", func() {
		tokens, err := shell.Tokenize(`rm -rf some\ dir`)
		Expect(err).NotTo(HaveOccurred())
		Expect(tokens).To(Equal([]string{"rm", "-rf", "some dir"}))
	})

	It("keeps parameter expansions in source form", func() {
		tokens, err := shell.Tokenize("rm -rf $HOME")
		Expect(err).NotTo(HaveOccurred())
		Expect(tokens).To(Equal([]string{"rm", "-rf", "$HOME"}))
	})

	It("keeps command substitutions opaque", func() {
		tokens, err := shell.Tokenize("echo $(rm -rf /)")
		Expect(err).NotTo(HaveOccurred())
		Expect(tokens).To(HaveLen(2))
		Expect(tokens[1]).To(ContainSubstring("rm -rf /"))
	})

	It("re-emits leading assignments as tokens", func() {
		tokens, err := shell.Tokenize("FOO=bar git status")
		Expect(err).NotTo(HaveOccurred())
		Expect(tokens).To(Equal([]string{"FOO=bar", "git", "status"}))
	})

	It("fails on an empty segment", func() {
		_, err := shell.Tokenize("   ")
		Expect(err).To(MatchError(shell.ErrEmptySegment))
	})

	It("fails on an unterminated quote", func() {
		_, err := shell.Tokenize("echo 'unterminated")
		Expect(err).To(MatchError(shell.ErrParseFailed))
	})

	It("rejects compound constructs", func() {
		_, err := shell.Tokenize("for f in *; do rm $f; done")
		Expect(err).To(MatchError(shell.ErrUnsupported))
	})
})
