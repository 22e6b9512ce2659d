package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/quixfix/api/schemas"
	"github.com/xkilldash9x/quixfix/internal/llmclient"
	"github.com/xkilldash9x/quixfix/internal/observability"
	"github.com/xkilldash9x/quixfix/internal/repair"
	"github.com/xkilldash9x/quixfix/internal/report"
)

// newBatchCmd creates and configures the `batch` command.
func newBatchCmd() *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Runs the repair loop against every program in the suite",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("repair.max_attempts", cmd.Flags().Lookup("max-attempts")); err != nil {
				return err
			}
			return viper.BindPFlag("repair.csv_output", cmd.Flags().Lookup("csv"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			out := cmd.OutOrStdout()

			cfg.Repair.MaxAttempts = viper.GetInt("repair.max_attempts")
			cfg.Repair.CSVOutput = viper.GetString("repair.csv_output")

			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("no API key configured: set QUIXFIX_LLM_API_KEY or GOOGLE_API_KEY")
			}

			programsDir := filepath.Join(cfg.Repair.ProgramsRoot, cfg.Repair.ProgramsSubdir)
			programs, err := listPrograms(programsDir)
			if err != nil {
				return err
			}
			if len(programs) == 0 {
				return fmt.Errorf("no %s files found under %s", cfg.Repair.SourceSuffix, programsDir)
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
				out,
			)

			outcomes := make([]schemas.RepairOutcome, 0, len(programs))
			for _, name := range programs {
				if err := ctx.Err(); err != nil {
					logger.Warn("Batch run aborted", zap.Error(err), zap.Int("completed", len(outcomes)))
					break
				}

				fmt.Fprintf(out, "Running repair on %s...\n", name)
				session := repair.NewSession(filepath.Join(programsDir, name), cfg.Repair.MaxAttempts)
				result := controller.Run(ctx, session)

				outcomes = append(outcomes, schemas.RepairOutcome{
					File:     name,
					Success:  result.Success,
					Attempts: result.Attempts,
				})
			}

			fmt.Fprint(out, "\n", report.Render(outcomes))

			csvPath := filepath.Join(programsDir, cfg.Repair.CSVOutput)
			if err := writeCSVFile(csvPath, outcomes); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nResults saved to %s\n", csvPath)

			return ctx.Err()
		},
	}

	batchCmd.Flags().IntP("max-attempts", "a", 3, "Maximum repair attempts per program. (Overrides config/env)")
	batchCmd.Flags().String("csv", "apr_results_summary.csv", "Summary CSV filename, written into the programs directory. (Overrides config/env)")

	return batchCmd
}

func writeCSVFile(path string, outcomes []schemas.RepairOutcome) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary csv %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing summary csv %s: %w", path, closeErr)
		}
	}()

	return report.WriteCSV(f, outcomes)
}
