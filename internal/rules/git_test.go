package rules_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-labs/safetynet/internal/rules"
	"github.com/smykla-labs/safetynet/pkg/config"
)

var _ = Describe("Git rules", func() {
	var (
		r   *rules.Rules
		env rules.Env
	)

	BeforeEach(func() {
		r = rules.New(nil)
		env = rules.Env{
			Cwd:         "/home/user/project",
			Home:        "/home/user",
			TrustTmpDir: true,
		}
	})

	evaluate := func(command string) rules.Verdict {
		return r.EvaluateSegment(strings.Fields(command), command, &env)
	}

	Describe("checkout", func() {
		It("blocks checkout -- paths", func() {
			v := evaluate("git checkout -- main.go")
			Expect(v.IsBlock()).To(BeTrue())
			Expect(v.Reason).To(ContainSubstring("discards uncommitted changes"))
		})

		It("blocks checkout <ref> -- <path>", func() {
			v := evaluate("git checkout HEAD -- main.go")
			Expect(v.IsBlock()).To(BeTrue())
			Expect(v.Reason).To(ContainSubstring("overwrites working tree"))
		})

		It("allows checkout -b", func() {
			Expect(evaluate("git checkout -b feature").IsAllow()).To(BeTrue())
		})

		It("allows checkout --orphan", func() {
			Expect(evaluate("git checkout --orphan fresh").IsAllow()).To(BeTrue())
		})

		It("blocks branch switching by default", func() {
			v := evaluate("git checkout main")
			Expect(v.IsBlock()).To(BeTrue())
			Expect(v.Reason).To(ContainSubstring("Branch switching"))
		})

		It("blocks checkout - (previous branch)", func() {
			Expect(evaluate("git checkout -").IsBlock()).To(BeTrue())
		})

		It("allows branch switching when configured", func() {
			allowed := true
			permissive := rules.New(&config.RulesConfig{
				Git: &config.GitRulesConfig{AllowBranchSwitching: &allowed},
			})

			v := permissive.EvaluateSegment(
				[]string{"git", "checkout", "main"}, "git checkout main", &env)
			Expect(v.IsAllow()).To(BeTrue())
		})
	})

	Describe("switch", func() {
		It("allows switch -c", func() {
			Expect(evaluate("git switch -c feature").IsAllow()).To(BeTrue())
		})

		It("blocks switch <branch> by default", func() {
			Expect(evaluate("git switch main").IsBlock()).To(BeTrue())
		})
	})

	Describe("restore", func() {
		It("blocks plain restore", func() {
			Expect(evaluate("git restore main.go").IsBlock()).To(BeTrue())
		})

		It("blocks restore --worktree", func() {
			v := evaluate("git restore --worktree main.go")
			Expect(v.IsBlock()).To(BeTrue())
			Expect(v.Reason).To(ContainSubstring("--worktree"))
		})

		It("allows restore --staged", func() {
			Expect(evaluate("git restore --staged main.go").IsAllow()).To(BeTrue())
		})

		It("allows restore --help", func() {
			Expect(evaluate("git restore --help").IsAllow()).To(BeTrue())
		})
	})

	Describe("reset", func() {
		It("blocks reset --hard", func() {
			Expect(evaluate("git reset --hard").IsBlock()).To(BeTrue())
			Expect(evaluate("git reset --hard HEAD~1").IsBlock()).To(BeTrue())
		})

		It("blocks reset --merge", func() {
			Expect(evaluate("git reset --merge").IsBlock()).To(BeTrue())
		})

		It("allows soft and mixed resets", func() {
			Expect(evaluate("git reset --soft HEAD~1").IsAllow()).To(BeTrue())
			Expect(evaluate("git reset HEAD file.go").IsAllow()).To(BeTrue())
		})
	})

	Describe("clean", func() {
		It("blocks clean -f", func() {
			Expect(evaluate("git clean -f").IsBlock()).To(BeTrue())
			Expect(evaluate("git clean -fd").IsBlock()).To(BeTrue())
		})

		It("blocks clean -fn despite the dry-run flag", func() {
			Expect(evaluate("git clean -fn").IsBlock()).To(BeTrue())
		})

		It("allows clean -n", func() {
			Expect(evaluate("git clean -n").IsAllow()).To(BeTrue())
			Expect(evaluate("git clean --dry-run").IsAllow()).To(BeTrue())
		})
	})

	Describe("push", func() {
		It("blocks push --force", func() {
			Expect(evaluate("git push --force origin main").IsBlock()).To(BeTrue())
		})

		It("blocks push -f", func() {
			Expect(evaluate("git push -f origin main").IsBlock()).To(BeTrue())
		})

		It("allows push --force-with-lease", func() {
			Expect(evaluate("git push --force-with-lease origin main").IsAllow()).To(BeTrue())
		})

		It("blocks when --force appears alongside --force-with-lease", func() {
			v := evaluate("git push --force --force-with-lease origin main")
			Expect(v.IsBlock()).To(BeTrue())
		})

		It("allows a plain push", func() {
			Expect(evaluate("git push origin main").IsAllow()).To(BeTrue())
		})
	})

	Describe("branch", func() {
		It("blocks branch -D", func() {
			Expect(evaluate("git branch -D feature").IsBlock()).To(BeTrue())
		})

		It("allows branch -d", func() {
			Expect(evaluate("git branch -d feature").IsAllow()).To(BeTrue())
		})

		It("allows listing branches", func() {
			Expect(evaluate("git branch -a").IsAllow()).To(BeTrue())
		})
	})

	Describe("stash", func() {
		It("blocks stash drop", func() {
			Expect(evaluate("git stash drop").IsBlock()).To(BeTrue())
		})

		It("blocks stash clear", func() {
			Expect(evaluate("git stash clear").IsBlock()).To(BeTrue())
		})

		It("allows stash push and pop", func() {
			Expect(evaluate("git stash").IsAllow()).To(BeTrue())
			Expect(evaluate("git stash pop").IsAllow()).To(BeTrue())
			Expect(evaluate("git stash list").IsAllow()).To(BeTrue())
		})
	})

	Describe("rebase", func() {
		It("blocks rebase", func() {
			Expect(evaluate("git rebase main").IsBlock()).To(BeTrue())
			Expect(evaluate("git rebase -i HEAD~3").IsBlock()).To(BeTrue())
		})

		It("allows rebase --help", func() {
			Expect(evaluate("git rebase --help").IsAllow()).To(BeTrue())
		})
	})

	Describe("commit", func() {
		It("blocks commit --amend", func() {
			Expect(evaluate("git commit --amend").IsBlock()).To(BeTrue())
		})

		It("allows a plain commit", func() {
			Expect(evaluate("git commit -m msg").IsAllow()).To(BeTrue())
		})
	})

	Describe("tag", func() {
		It("blocks tag -d", func() {
			Expect(evaluate("git tag -d v1.0.0").IsBlock()).To(BeTrue())
			Expect(evaluate("git tag --delete v1.0.0").IsBlock()).To(BeTrue())
		})

		It("allows tag creation and listing", func() {
			Expect(evaluate("git tag v1.0.0").IsAllow()).To(BeTrue())
			Expect(evaluate("git tag -l").IsAllow()).To(BeTrue())
		})
	})

	Describe("global options", func() {
		It("finds the subcommand behind -C", func() {
			Expect(evaluate("git -C /repo reset --hard").IsBlock()).To(BeTrue())
		})

		It("finds the subcommand behind -c key=val", func() {
			Expect(evaluate("git -c core.pager=cat push --force origin").IsBlock()).To(BeTrue())
		})

		It("allows read-only subcommands", func() {
			Expect(evaluate("git status").IsAllow()).To(BeTrue())
			Expect(evaluate("git log --oneline").IsAllow()).To(BeTrue())
			Expect(evaluate("git diff").IsAllow()).To(BeTrue())
		})

		It("allows bare git", func() {
			Expect(evaluate("git").IsAllow()).To(BeTrue())
			Expect(evaluate("git --version").IsAllow()).To(BeTrue())
		})
	})
})
