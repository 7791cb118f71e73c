package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"TrendCast/internal/collector"
)

func newNewsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "news SYMBOL",
		Short: "List recent news stories for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := buildNews(root.cfg)
			if client == nil {
				return errors.New("news requires news.app_id and news.api_key (AYLIEN_APP_ID, AYLIEN_API_KEY)")
			}
			symbol, err := collector.CleanSymbol(args[0])
			if err != nil {
				return err
			}
			stories, err := client.Stories(cmd.Context(), symbol)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(stories) == 0 {
				fmt.Fprintf(out, "no stories for %s\n", symbol)
			}
			for _, s := range stories {
				fmt.Fprintf(out, "%s  %s (%s)\n    %s\n", s.PublishedAt.Format("2006-01-02 15:04"), s.Title, s.Source, s.URL)
			}
			return nil
		},
	}
}
