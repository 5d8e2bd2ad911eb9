package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the node statistics and network metrics.",
	Run:   statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) {
	var stats map[string]any
	if err := getJSON("/api/statistics", &stats); err != nil {
		log.Fatal(err)
	}
	print(stats)

	var metrics map[string]any
	if err := getJSON("/api/metrics", &metrics); err != nil {
		log.Fatal(err)
	}
	print(metrics)
}
