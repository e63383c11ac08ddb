package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkPrompt is a trivial request proving the configured credentials can
// reach the model.
const checkPrompt = "Reply with the single word OK."

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the configured model provider is reachable with the current credentials",
	Run: func(_ *cobra.Command, _ []string) {
		check()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check() {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	invoker, err := newInvoker(ctx, config.LLM)
	if err != nil {
		logger.Fatal("building model provider", zap.Error(err))
	}

	logger.Info("sending test prompt",
		zap.String("provider", providerName(config.LLM)),
		zap.String("model", invoker.Model()),
	)

	response, err := invoker.Invoke(ctx, checkPrompt)
	if err != nil {
		logger.Fatal("model invocation failed", zap.Error(err))
	}

	logger.Info("model provider is ready",
		zap.String("model", invoker.Model()),
		zap.String("response", response),
	)
}
