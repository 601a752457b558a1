package cmd

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leasebook/leasebook/internal/engine"
	"github.com/leasebook/leasebook/internal/journal"
)

var entriesCmd = &cobra.Command{
	Use:   "entries <contract.json>",
	Short: "Print balanced journal entries for the full schedule as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntries,
}

var entriesAccountsFile string

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.Flags().StringVarP(&entriesAccountsFile, "accounts", "a", "", "path to a YAML chart of accounts override")
}

func runEntries(cmd *cobra.Command, args []string) error {
	c, err := loadContract(args[0])
	if err != nil {
		return err
	}

	chart := journal.DefaultChart()
	if entriesAccountsFile != "" {
		chart, err = journal.LoadChart(entriesAccountsFile)
		if err != nil {
			return err
		}
	}

	s := engine.GenerateSchedule(c)
	entries := journal.ForSchedule(c, s, chart)

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"id", "date", "description", "debit_account", "credit_account", "amount", "currency"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.ID,
			e.Date.Format("2006-01-02"),
			e.Description,
			e.DebitAccount,
			e.CreditAccount,
			strconv.FormatFloat(e.DebitAmount, 'f', 2, 64),
			e.Currency,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
