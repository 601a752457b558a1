package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leasebook/leasebook/internal/lease"
)

var rootCmd = &cobra.Command{
	Use:   "leasectl",
	Short: "Offline lease accounting calculator",
	Long: `Leasectl computes lease accounting figures from a contract file
without a running server.

It provides tools for:
  - Generating monthly amortization schedules
  - Producing balanced journal entries per period
  - Computing the present value of remaining lease payments

A contract file is a JSON document describing the lease terms and any
recorded modifications.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func loadContract(path string) (lease.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lease.Contract{}, fmt.Errorf("read contract: %w", err)
	}
	var c lease.Contract
	if err := json.Unmarshal(data, &c); err != nil {
		return lease.Contract{}, fmt.Errorf("parse contract: %w", err)
	}
	return c, nil
}
