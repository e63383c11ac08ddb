package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the current evaluation matrix",
	Run: func(_ *cobra.Command, _ []string) {
		showMatrix()
	},
}

func init() {
	rootCmd.AddCommand(matrixCmd)
}

func showMatrix() {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	m, err := newStore(config).Load()
	if err != nil {
		logger.Fatal("loading evaluation matrix", zap.Error(err))
	}

	if m.Len() == 0 {
		logger.Info("evaluation matrix is empty", zap.String("file", config.MatrixFile))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "#\tRequirement")
	for _, vendor := range m.Vendors {
		fmt.Fprintf(w, "\t%s", vendor)
	}
	fmt.Fprintln(w)

	for i, row := range m.Rows {
		fmt.Fprintf(w, "%d\t%s", i+1, row.Requirement)
		for _, vendor := range m.Vendors {
			fmt.Fprintf(w, "\t%s", row.Verdicts[vendor])
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		logger.Fatal("printing matrix", zap.Error(err))
	}
}
