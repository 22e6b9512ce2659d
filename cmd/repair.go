package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/quixfix/internal/llmclient"
	"github.com/xkilldash9x/quixfix/internal/observability"
	"github.com/xkilldash9x/quixfix/internal/repair"
)

// newRepairCmd creates and configures the `repair` command.
func newRepairCmd() *cobra.Command {
	repairCmd := &cobra.Command{
		Use:   "repair <program>",
		Short: "Runs the repair loop against a single buggy program",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so command-line values override config/env with the
			// right precedence.
			if err := viper.BindPFlag("repair.max_attempts", cmd.Flags().Lookup("max-attempts")); err != nil {
				return err
			}
			return viper.BindPFlag("llm.model", cmd.Flags().Lookup("model"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-read the two overridable values now that flags are bound.
			cfg.Repair.MaxAttempts = viper.GetInt("repair.max_attempts")
			cfg.LLM.Model = viper.GetString("llm.model")

			target, err := resolveProgram(args[0])
			if err != nil {
				return err
			}

			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("no API key configured: set QUIXFIX_LLM_API_KEY or GOOGLE_API_KEY")
			}

			llm, err := llmclient.NewClient(cfg.LLM, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize LLM client: %w", err)
			}
			defer func() {
				if err := llm.Close(); err != nil {
					logger.Warn("Error closing LLM client", zap.Error(err))
				}
			}()

			controller := repair.NewController(
				logger,
				repair.NewFileStore(logger),
				repair.NewTestRunner(logger, cfg.Repair),
				repair.NewPatchGenerator(logger, llm, cfg.LLM),
				repair.NewPatcher(logger),
				repair.Differ{},
				cmd.OutOrStdout(),
			)

			session := repair.NewSession(target, cfg.Repair.MaxAttempts)
			result := controller.Run(ctx, session)

			// A system fault (unreadable file, oracle outage, bad patch
			// coordinates) is an operational error. An exhausted attempt
			// budget is a normal outcome; the report already explains it.
			if result.ErrorMessage != "" {
				return fmt.Errorf("repair aborted: %s", result.ErrorMessage)
			}
			return nil
		},
	}

	repairCmd.Flags().IntP("max-attempts", "a", 3, "Maximum repair attempts before giving up. (Overrides config/env)")
	repairCmd.Flags().StringP("model", "m", "gemini-2.5-flash", "Generative model to query. (Overrides config/env)")

	return repairCmd
}

// resolveProgram turns a program name into a path under the programs
// directory, appending the source suffix when missing. An unknown program
// fails with a listing of what is available.
func resolveProgram(name string) (string, error) {
	filename := name
	if !strings.HasSuffix(filename, cfg.Repair.SourceSuffix) {
		filename += cfg.Repair.SourceSuffix
	}

	programsDir := filepath.Join(cfg.Repair.ProgramsRoot, cfg.Repair.ProgramsSubdir)
	target := filepath.Join(programsDir, filename)

	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	available, listErr := listPrograms(programsDir)
	if listErr != nil || len(available) == 0 {
		return "", fmt.Errorf("program %s not found under %s", filename, programsDir)
	}
	return "", fmt.Errorf("program %s not found under %s; available programs: %s",
		filename, programsDir, strings.Join(available, ", "))
}

// listPrograms returns the sorted base names of repairable files in dir.
func listPrograms(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading programs directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cfg.Repair.SourceSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
