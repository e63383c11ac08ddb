package cmd

import (
	"github.com/spigell/rfp-evaluator/internal/matrix"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the evaluation matrix as an xlsx spreadsheet",
	Run: func(cmd *cobra.Command, _ []string) {
		export(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "evaluation_matrix.xlsx", "output spreadsheet path")
}

func export(cmd *cobra.Command) {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	m, err := newStore(config).Load()
	if err != nil {
		logger.Fatal("loading evaluation matrix", zap.Error(err))
	}

	output := cmd.Flag("output").Value.String()
	if err := matrix.ExportXLSX(m, output); err != nil {
		logger.Fatal("exporting matrix", zap.String("output", output), zap.Error(err))
	}

	logger.Info("matrix exported",
		zap.String("output", output),
		zap.Int("requirements", m.Len()),
		zap.Int("vendors", len(m.Vendors)),
	)
}
