package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Run a chain integrity check on the node.",
	Run:   integrityRun,
}

func init() {
	rootCmd.AddCommand(integrityCmd)
}

func integrityRun(cmd *cobra.Command, args []string) {
	var report map[string]any
	if err := getJSON("/api/integrity", &report); err != nil {
		log.Fatal(err)
	}
	print(report)
}
