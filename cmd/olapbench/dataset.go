package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olapbench/olapbench/internal/dataset"
)

var (
	datasetRows int
	datasetSeed int64
	datasetOut  string
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Generate the synthetic eCommerce dataset",
	Long: `Generate the synthetic eCommerce event CSV the backends query.

Generation is deterministic: the same --rows and --seed always produce
an identical file, so benchmark runs are reproducible across machines.

Example:
  olapbench dataset --rows 1000000 --seed 42`,
	RunE: runDataset,
}

func init() {
	rootCmd.AddCommand(datasetCmd)

	datasetCmd.Flags().IntVar(&datasetRows, "rows", 1000000, "number of event rows to generate")
	datasetCmd.Flags().Int64Var(&datasetSeed, "seed", 42, "random seed for reproducible data")
	datasetCmd.Flags().StringVar(&datasetOut, "out", "", "output path (default: dataset_path from config)")
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := datasetOut
	if path == "" {
		path = cfg.DatasetPath
	}

	fmt.Printf("Generating %d rows (seed %d) to %s ...\n", datasetRows, datasetSeed, path)
	if err := dataset.Generate(path, datasetRows, datasetSeed); err != nil {
		return err
	}
	fmt.Printf("Dataset generated: %s\n", path)
	return nil
}
