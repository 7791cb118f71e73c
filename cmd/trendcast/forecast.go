package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"TrendCast/internal/model"
)

func newForecastCmd(root *rootOptions) *cobra.Command {
	var (
		horizon int
		ratio   float64
		z       float64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "forecast SYMBOL",
		Short: "Fit a linear trend and project it with a confidence band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			opts := cfg.ForecastOptions()
			if cmd.Flags().Changed("horizon") {
				opts.HorizonDays = horizon
			}
			if cmd.Flags().Changed("ratio") {
				opts.TrainRatio = ratio
			}
			if cmd.Flags().Changed("z") {
				opts.ConfidenceZ = z
			}

			rec := buildRecorder(cfg)
			defer rec.Close()
			col, closeCache := buildCollector(cfg, rec, nil)
			defer closeCache()

			f, err := col.ForecastWithOptions(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			}
			return printForecast(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().IntVar(&horizon, "horizon", 90, "forecast horizon in calendar days")
	cmd.Flags().Float64Var(&ratio, "ratio", 0.8, "share of bars used for training")
	cmd.Flags().Float64Var(&z, "z", 1.96, "confidence band z-score")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full forecast as JSON")
	return cmd
}

func printForecast(w io.Writer, f *model.Forecast) error {
	fmt.Fprintf(w, "%s  last close %.2f on %s\n", f.Symbol, f.LastClose, f.LastDate.Format("2006-01-02"))
	fmt.Fprintf(w, "trend %+.4f/day  std error %.4f  train %d  held out %d\n\n",
		f.Model.Slope, f.Residuals.StdError, f.TrainSize, f.HeldOutSize)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tPrediction\tLower\tUpper\t")
	for _, p := range f.Points {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t\n", p.Date.Format("2006-01-02"), p.Predicted, p.Lower, p.Upper)
	}
	return tw.Flush()
}
