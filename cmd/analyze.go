package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spigell/rfp-evaluator/internal/evaluation"
	"github.com/spigell/rfp-evaluator/internal/extract"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <rfp.pdf>",
	Short: "Extract requirements from an RFP document and update the evaluation matrix",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		analyze(args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// analyze runs workflow 1: PDF text extraction, requirement enumeration,
// matrix update, full rewrite of the matrix file.
func analyze(path string) {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading rfp document", zap.String("path", path), zap.Error(err))
	}

	text, err := extract.Text(data)
	if err != nil {
		logger.Fatal("extracting rfp text", zap.String("path", path), zap.Error(err))
	}

	logger.Info("rfp text extracted",
		zap.String("path", path),
		zap.Int("characters", len(text)),
	)

	pipeline, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing pipeline", zap.Error(err))
	}

	store := newStore(config)
	m, err := store.Load()
	if err != nil {
		logger.Fatal("loading evaluation matrix", zap.Error(err))
	}

	added, err := pipeline.ExtractRequirements(ctx, text, m)
	if err != nil {
		if errors.Is(err, evaluation.ErrEmptyExtraction) {
			logger.Warn("no requirements could be extracted; matrix left unchanged")
			return
		}
		logger.Fatal("extracting requirements", zap.Error(err))
	}

	if err := store.Save(m); err != nil {
		logger.Fatal("saving evaluation matrix", zap.Error(err))
	}

	logger.Info("evaluation matrix updated",
		zap.String("file", config.MatrixFile),
		zap.Int("added", added),
		zap.Int("total_requirements", m.Len()),
	)

	for i, req := range m.Requirements() {
		fmt.Printf("%d. %s\n", i+1, req)
	}
}
