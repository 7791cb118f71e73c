package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"TrendCast/internal/calculator"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch SYMBOL",
		Short: "Download daily bars and save them as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			rec := buildRecorder(cfg)
			defer rec.Close()

			col, closeCache := buildCollector(cfg, rec, nil)
			defer closeCache()
			series, err := col.FetchSeries(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d bars", series.Symbol, series.Len())
			if series.Len() > 0 {
				first, last := series.Bars[0], series.Last()
				fmt.Fprintf(out, " from %s to %s, last close %.2f",
					first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"), last.Close)
				if sma, err := calculator.CalculateCloseSMA(series.Bars, 20); err == nil {
					fmt.Fprintf(out, ", SMA20 %.2f", sma)
				}
			}
			fmt.Fprintln(out)
			if cfg.Export.CSVDir != "" {
				fmt.Fprintf(out, "saved to %s\n", cfg.Export.CSVDir)
			}
			return nil
		},
	}
}
