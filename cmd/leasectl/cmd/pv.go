package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leasebook/leasebook/internal/engine"
)

var pvCmd = &cobra.Command{
	Use:   "pv <contract.json>",
	Short: "Compute the present value of the lease payments",
	Args:  cobra.ExactArgs(1),
	RunE:  runPV,
}

func init() {
	rootCmd.AddCommand(pvCmd)
}

func runPV(cmd *cobra.Command, args []string) error {
	c, err := loadContract(args[0])
	if err != nil {
		return err
	}
	pv := engine.ContractPresentValue(c)
	fmt.Printf("%.2f %s\n", pv, c.Currency)
	return nil
}
