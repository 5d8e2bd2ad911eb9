package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Reset the node back to its genesis state.",
	Run:   restartRun,
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

func restartRun(cmd *cobra.Command, args []string) {
	resp, err := http.Post(url+"/api/blockchain/restart", "application/json", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node returned status %d", resp.StatusCode)
	}

	fmt.Println("Node restarted.")
}
