package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/timethings/pkg/adapters/fs"
	"github.com/aretw0/timethings/pkg/timefmt"
)

var (
	topLimit int
	topJSON  bool
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most edited notes",
	Long: `List notes with at least a minute of edit time, longest first, with the
time of their last change and the total edit time of the list.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		s := app.Tracker.Settings()

		stats, err := app.Vault.Stats(context.Background(), s.Duration.Path, s.Modified.Path)
		if err != nil {
			fatal("Failed to scan vault", err)
		}
		top, total := fs.MostEdited(stats)
		if topLimit > 0 && len(top) > topLimit {
			top = top[:topLimit]
		}

		if topJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]any{"notes": top, "total_seconds": total}); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		if len(top) == 0 {
			fmt.Println("No edited notes yet.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NOTE\tEDITED\tCHANGED")
		for _, n := range top {
			fmt.Fprintf(w, "%s\t%s\t%s\n", n.Title, timefmt.Humanize(n.Seconds), changed(n, s.Modified.Format))
		}
		w.Flush()

		sum, err := timefmt.FormatSeconds(total, "h[h] m[m]")
		if err != nil {
			sum = timefmt.Humanize(total)
		}
		fmt.Printf("\n%s notes, %s in total\n", humanize.Comma(int64(len(top))), sum)
	},
}

// changed renders when a note last changed: the modified field when it
// parses with format, the file time otherwise.
func changed(n fs.NoteStats, format string) string {
	if n.Updated != "" {
		if t, err := timefmt.ParseStrict(n.Updated, format, time.Local); err == nil {
			return humanize.Time(t)
		}
	}
	return humanize.Time(n.ModTime)
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 10, "Maximum number of notes (0 for all)")
	topCmd.Flags().BoolVar(&topJSON, "json", false, "Output in JSON format")
}
