package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/timethings/internal/platform"
	"github.com/aretw0/timethings/pkg/tracker"
)

var serveNoWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Track editor activity read from stdin",
	Long: `Read editor activity from stdin, one JSON object per line, and dispatch it
to the tracker. Vault saves are watched as well unless --no-watch is set.
The clock and the edit duration of the active note are printed to stdout.

  {"type":"keyup","path":"daily/today.md","key":"a"}
  {"type":"active-changed","path":"daily/today.md"}
  {"type":"pointerdown","path":"daily/today.md","blurred":true}`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := openApp(platform.WithStatusSink(tracker.NewWriterSink(os.Stdout)))

		g, ctx := errgroup.WithContext(ctx)
		if !serveNoWatch {
			g.Go(func() error {
				return app.Watch(ctx)
			})
		}
		g.Go(func() error {
			return app.Tracker.RunClock(ctx)
		})
		g.Go(func() error {
			// Stdin reads do not observe ctx; closing stdin ends the feed.
			err := app.Feed(ctx, os.Stdin)
			stop()
			return err
		})

		if err := g.Wait(); err != nil {
			fatal("Serve failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not watch the vault for saves")
}
