// Package main provides the CLI entry point for safetynet.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	appconfig "github.com/smykla-labs/safetynet/internal/config"
	"github.com/smykla-labs/safetynet/internal/engine"
	"github.com/smykla-labs/safetynet/internal/parser"
	"github.com/smykla-labs/safetynet/internal/rules"
	"github.com/smykla-labs/safetynet/pkg/config"
	"github.com/smykla-labs/safetynet/pkg/hook"
	"github.com/smykla-labs/safetynet/pkg/logger"
)

const (
	// DefaultLogFile is the log file name under the global config dir.
	DefaultLogFile = "safetynet.log"

	// LogDirPermissions restricts the log directory to the owner.
	LogDirPermissions = 0o700

	// CommandDisplayLength is the maximum length of command to display in logs.
	CommandDisplayLength = 50
)

var (
	hookType   string
	strictMode bool
	debugMode  bool
	traceMode  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "safetynet",
	Short: "Command safety hook for Claude Code",
	Long: `safetynet inspects Bash tool invocations before Claude Code executes them
and denies destructive git operations, dangerous recursive deletions, and
reads of credential files.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&hookType, "hook-type", "", "Hook event type (PreToolUse, PostToolUse)")
	rootCmd.Flags().BoolVar(&strictMode, "strict", false, "Block indeterminate commands and within-cwd recursive deletions")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&traceMode, "trace", false, "Enable trace logging")

	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, _ []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "failed to get home directory")
	}

	loader, err := appconfig.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create config loader")
	}

	cfg, err := loader.Load(flagOverrides(cmd))
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	log := newLogger(cfg, homeDir)

	eventType := hook.EventTypeString(hookType)
	if hookType == "" {
		eventType = hook.EventTypePreToolUse
	}

	log.Info("hook invoked",
		"eventType", eventType.String(),
		"strict", cfg.IsStrict(),
	)

	// Only PreToolUse can prevent anything; other events pass through.
	if eventType != hook.EventTypePreToolUse {
		return nil
	}

	ctx, err := parser.NewJSONParser(os.Stdin).Parse(eventType)
	if err != nil {
		if errors.Is(err, parser.ErrEmptyInput) {
			log.Info("no input provided, allowing")

			return nil
		}

		// A payload this hook cannot read is the host's bug, not the
		// command's; failing open keeps the session usable.
		log.Error("failed to parse input, allowing", "error", err.Error())

		return nil
	}

	if !ctx.IsBashTool() {
		log.Debug("not a Bash invocation, allowing", "tool", ctx.ToolName.String())

		return nil
	}

	command := ctx.GetCommand()
	if command == "" {
		return nil
	}

	log.Info("analyzing command",
		"command", truncate(command, CommandDisplayLength),
		"cwd", ctx.Cwd,
		"session", ctx.SessionID,
	)

	env := rules.Env{
		Home:        homeDir,
		TmpDir:      os.Getenv("TMPDIR"),
		TrustTmpDir: true,
	}

	analyzer := engine.New(cfg, env, log)

	dec := analyzer.Evaluate(engine.Request{
		Command: command,
		Cwd:     ctx.Cwd,
		Strict:  cfg.IsStrict(),
	})

	if dec.Verdict.IsBlock() {
		log.Info("command blocked",
			"reason", dec.Verdict.Reason,
			"segment", truncate(dec.Segment, CommandDisplayLength),
		)

		return writeDeny(os.Stdout, dec.Verdict.Reason, command, dec.Segment)
	}

	log.Info("command allowed")

	return nil
}

// flagOverrides returns only the flags the user actually set, so they win
// over file and environment configuration without clobbering it.
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := make(map[string]any)

	if cmd.Flags().Changed("strict") {
		overrides["strict"] = strictMode
	}

	if cmd.Flags().Changed("debug") {
		overrides["logging.debug"] = debugMode
	}

	if cmd.Flags().Changed("trace") {
		overrides["logging.trace"] = traceMode
	}

	return overrides
}

// newLogger opens the file logger, falling back to a no-op logger when the
// file cannot be opened. The hook must not fail because logging cannot.
func newLogger(cfg *config.Config, homeDir string) logger.Logger {
	logPath := cfg.GetLogging().GetFile()
	if logPath == "" {
		logPath = filepath.Join(homeDir, appconfig.GlobalConfigDir, DefaultLogFile)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), LogDirPermissions); err != nil {
		return logger.NewNoOpLogger()
	}

	log, err := logger.NewFileLogger(logPath, cfg.GetLogging().IsDebug(), cfg.GetLogging().IsTrace())
	if err != nil {
		return logger.NewNoOpLogger()
	}

	return log
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	return s[:maxLen] + "..."
}
