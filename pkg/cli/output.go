package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"snowlens/internal/config"
	"snowlens/internal/domain"
)

func writeIndentedJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRankingTable(w io.Writer, records []domain.QueryCostRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no query groups found in the ranking window")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tWAREHOUSE\tSIZE\tUSER\tRUNS\tHOURS\tCOST\tQUERY ID")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
			i+1, r.ResourceName, r.ResourceSize, r.Principal,
			r.ExecutionCount, r.DurationHours, r.CostFactor, r.SampleQueryID)
	}
	tw.Flush() //nolint:errcheck
}

func printMetricLines(w io.Writer, lines []domain.MetricLine) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range lines {
		fmt.Fprintf(tw, "%s:\t%s\n", l.Label, l.Value)
	}
	tw.Flush() //nolint:errcheck
}

func printProfiles(w io.Writer, profiles *config.Profiles) {
	names := make([]string, 0, len(profiles.Profiles))
	for name := range profiles.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tACCOUNT\tUSER\tWAREHOUSE\tDATABASE\tMODEL")
	for _, name := range names {
		p := profiles.Profiles[name]
		marker := ""
		if name == profiles.CurrentProfile {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\t%s\n",
			name, marker, p.Account, p.User, p.Warehouse, p.Database, p.Model)
	}
	tw.Flush() //nolint:errcheck
}
