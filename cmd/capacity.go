package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avelard/roadcast/app"
	"github.com/avelard/roadcast/config"
)

var horizonPeriods int

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Show the resolved capacity for upcoming periods",
	RunE:  showCapacity,
}

func init() {
	capacityCmd.Flags().IntVarP(&horizonPeriods, "periods", "n", 4, "number of periods to show")
	rootCmd.AddCommand(capacityCmd)
}

func showCapacity(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	rows, err := svc.CapacityHorizon(horizonPeriods)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tSTART\tEND\tWORKING DAYS\tCAPACITY\tPER DAY\tSOURCE")
	for _, r := range rows {
		source := "default"
		if r.Override {
			source = "override"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f\t%.2f\t%s\n",
			r.Period,
			r.Start.Format("2006-01-02"),
			r.End.Format("2006-01-02"),
			r.WorkingDays,
			r.Total,
			r.PerDay,
			source,
		)
	}
	return tw.Flush()
}
