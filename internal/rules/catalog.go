package rules

// CatalogEntry is one row of the human-readable rule catalog.
type CatalogEntry struct {
	Domain  Domain
	Pattern string
	Verdict string
	Reason  string
}

// Catalog returns the static rule table for display purposes. The entries
// mirror the rulesets; policy-dependent rows name the config key.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{DomainGit, "checkout -- <paths>", "block", reasonGitCheckoutDoubleDash},
		{DomainGit, "checkout <ref> -- <path>", "block", reasonGitCheckoutRefDoubleDash},
		{DomainGit, "checkout -b / --orphan", "allow", "creates a new ref, no data loss"},
		{DomainGit, "checkout <branch>", "policy", "blocked unless rules.git.allow_branch_switching"},
		{DomainGit, "switch -c", "allow", "creates a new ref, no data loss"},
		{DomainGit, "switch <branch>", "policy", "blocked unless rules.git.allow_branch_switching"},
		{DomainGit, "restore (worktree)", "block", reasonGitRestore},
		{DomainGit, "restore --staged", "allow", "only unstages"},
		{DomainGit, "reset --hard / --merge", "block", reasonGitResetHard},
		{DomainGit, "reset (soft/mixed)", "allow", "keeps working tree"},
		{DomainGit, "clean -f (even with -n)", "block", reasonGitCleanForce},
		{DomainGit, "clean -n / --dry-run", "allow", "no side effects"},
		{DomainGit, "push --force / -f", "block", reasonGitPushForce},
		{DomainGit, "push --force-with-lease", "allow", "lease protects remote history"},
		{DomainGit, "branch -D", "block", reasonGitBranchForceDelete},
		{DomainGit, "branch -d / list / create", "allow", "merge-checked or read-only"},
		{DomainGit, "tag -d", "block", reasonGitTagDelete},
		{DomainGit, "stash drop / clear", "block", reasonGitStashDrop},
		{DomainGit, "rebase", "block", reasonGitRebase},
		{DomainGit, "commit --amend", "block", reasonGitCommitAmend},
		{DomainDeletion, "rm -rf <root/home>", "block", reasonRmRootOrHome},
		{DomainDeletion, "rm -rf <temp path>", "allow", "temp roots are disposable"},
		{DomainDeletion, "rm -rf <within cwd>", "policy", "allowed unless strict mode"},
		{DomainDeletion, "rm -rf <elsewhere>", "block", reasonRmOutsideCwd},
		{DomainDeletion, "rm (not both -r and -f)", "allow", "ordinary deletions are out of scope"},
		{DomainSensitiveRead, "cat/less/head/... <sensitive path>", "block", reasonSensitiveRead},
	}
}
