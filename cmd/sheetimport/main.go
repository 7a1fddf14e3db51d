package main

import (
	"fmt"
	"os"

	"blair-ops/internal/app"
	"blair-ops/internal/config"
	"blair-ops/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "sheetimport <workbook.xlsx>",
		Short: "Import the TimeCard sheet of a legacy workbook into the time-card log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(envFile)
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Env)
			if err != nil {
				return err
			}
			defer log.Sync()
			zap.ReplaceGlobals(log)

			result, err := app.ImportLegacyTimeCard(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows, skipped %d\n", result.Imported, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	return cmd
}
