package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spigell/rfp-evaluator/internal/extract"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score <proposal.pdf>",
	Short: "Score a vendor proposal against the requirements in the evaluation matrix",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("vendor", "v", "", "vendor name used as the matrix column header")
}

// score runs workflow 2: PDF text extraction, per-requirement verdicts from
// the model, vendor column merge, full rewrite of the matrix file.
func score(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	vendor, err := resolveVendorName(cmd)
	if err != nil {
		logger.Fatal("resolving vendor name", zap.Error(err))
	}

	store := newStore(config)
	m, err := store.Load()
	if err != nil {
		logger.Fatal("loading evaluation matrix", zap.Error(err))
	}

	if m.Len() == 0 {
		logger.Fatal("evaluation matrix is empty",
			zap.String("file", config.MatrixFile),
			zap.String("hint", "run 'rfp-evaluator analyze' on the RFP document first"),
		)
	}

	if m.HasVendor(vendor) {
		logger.Warn("vendor already present in the matrix; its column will be overwritten",
			zap.String("vendor", vendor),
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading proposal document", zap.String("path", path), zap.Error(err))
	}

	text, err := extract.Text(data)
	if err != nil {
		logger.Fatal("extracting proposal text", zap.String("path", path), zap.Error(err))
	}

	logger.Info("proposal text extracted",
		zap.String("path", path),
		zap.Int("characters", len(text)),
	)

	pipeline, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing pipeline", zap.Error(err))
	}

	result, err := pipeline.ScoreVendor(ctx, vendor, text, m)
	if err != nil {
		logger.Fatal("scoring vendor proposal", zap.Error(err))
	}

	if err := store.Save(m); err != nil {
		logger.Fatal("saving evaluation matrix", zap.Error(err))
	}

	if len(result.NotAddressed) > 0 {
		logger.Warn("requirements without a parsed verdict were marked with the sentinel",
			zap.Strings("requirements", result.NotAddressed),
		)
	}

	logger.Info("evaluation matrix updated",
		zap.String("file", config.MatrixFile),
		zap.String("vendor", vendor),
		zap.Int("scored", result.Scored),
		zap.Int("not_addressed", len(result.NotAddressed)),
	)
}

func resolveVendorName(cmd *cobra.Command) (string, error) {
	vendor := strings.TrimSpace(cmd.Flag("vendor").Value.String())
	if vendor != "" {
		return vendor, nil
	}

	prompt := promptui.Prompt{
		Label: "Vendor name",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("vendor name must not be empty")
			}
			return nil
		},
	}

	vendor, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(vendor), nil
}
