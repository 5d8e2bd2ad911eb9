package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	workType   string
	difficulty int
	minerID    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a mining operation on the node.",
	Run:   startRun,
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVarP(&workType, "type", "t", "riemann_zero", "Type of work to start.")
	startCmd.Flags().IntVarP(&difficulty, "difficulty", "d", 25, "Difficulty of the operation.")
	startCmd.Flags().StringVarP(&minerID, "miner", "m", "platformctl", "Miner to attribute the work to.")
}

func startRun(cmd *cobra.Command, args []string) {
	body := struct {
		OperationType string `json:"operationType"`
		Difficulty    int    `json:"difficulty"`
		MinerID       string `json:"minerId"`
	}{
		OperationType: workType,
		Difficulty:    difficulty,
		MinerID:       minerID,
	}

	data, err := json.Marshal(body)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(url+"/api/mining/start", "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("node returned status %d", resp.StatusCode)
	}

	var op map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Operation started:")
	print(op)
}
