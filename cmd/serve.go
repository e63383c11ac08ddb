package cmd

import (
	"context"

	"github.com/spigell/rfp-evaluator/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluation workflows over an HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", ":8080", "listen address for the http api")
}

func serve(cmd *cobra.Command) {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	pipeline, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing pipeline", zap.Error(err))
	}

	addr := cmd.Flag("listen").Value.String()
	srv := server.New(pipeline, newStore(config), logger, addr)

	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
