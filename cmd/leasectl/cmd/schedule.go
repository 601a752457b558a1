package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leasebook/leasebook/internal/engine"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <contract.json>",
	Short: "Print the monthly amortization schedule as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	c, err := loadContract(args[0])
	if err != nil {
		return err
	}

	s := engine.GenerateSchedule(c)

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"period", "date", "payment", "interest", "principal", "closing_liability", "depreciation", "closing_rou", "event", "adjustment"}); err != nil {
		return err
	}
	for _, row := range s.Rows {
		rec := []string{
			strconv.Itoa(row.Period),
			row.Date.Format("2006-01-02"),
			amount(row.Payment),
			amount(row.Interest),
			amount(row.Principal),
			amount(row.ClosingLiability),
			amount(row.Depreciation),
			amount(row.ClosingROU),
			row.Event,
			amount(row.Adjustment),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if s.Truncated {
		fmt.Fprintln(os.Stderr, "warning: schedule truncated at the period cap")
	}
	return nil
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
