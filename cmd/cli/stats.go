package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/listing"
	"github.com/spf13/cobra"
)

func (a *app) statsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard figures from the stats endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.client()
			sources := client.DashboardSources()
			if all {
				sources = append(sources,
					client.StatSource("menu", adminapi.PathMenuStats, adminapi.ExtractOverview("menu")),
					client.StatSource("categories", adminapi.PathCategoryStats, adminapi.ExtractOverview("categories")),
				)
			}
			agg := listing.NewAggregator(a.logger, sources...)

			stats, err := agg.Collect(cmd.Context())
			if err != nil {
				// partial results are still printed
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			if len(stats) == 0 {
				return fmt.Errorf("no stats available")
			}

			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tw := newTable(cmd.OutOrStdout(), "FIGURE", "VALUE")
			for _, k := range keys {
				tw.row(k, strconv.FormatFloat(stats[k], 'f', -1, 64))
			}
			return tw.flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include menu and category figures")
	return cmd
}
